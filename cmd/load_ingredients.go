package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var ingredientsFile string

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Import ingredients from a name,measurement_unit CSV file",
	Long: `Reads rows of "name,measurement_unit" and inserts the ingredients that do not
exist yet. Running the import twice is safe. A leading "name,measurement_unit"
header row is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := readIngredientRows(f)
		if err != nil {
			return fmt.Errorf("%s: %w", ingredientsFile, err)
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDatabase(conf)
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		ingredients, err := services.NewIngredientService(db, conf.CatalogCacheSize)
		if err != nil {
			return err
		}
		created, err := ingredients.ImportIngredients(cmd.Context(), rows)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file":    ingredientsFile,
			"rows":    len(rows),
			"created": created,
		}).Info("Ingredients imported")
		return nil
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "data/ingredients.csv", "CSV file to import")
}

// readIngredientRows parses name,measurement_unit records
func readIngredientRows(r io.Reader) ([]models.IngredientRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []models.IngredientRequest
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(record[0], "name") {
			continue
		}
		rows = append(rows, models.IngredientRequest{Name: record[0], MeasurementUnit: record[1]})
	}
	return rows, nil
}
