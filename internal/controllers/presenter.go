package controllers

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
)

// presenter turns models into responses, filling the per-viewer flags
type presenter struct {
	recipes       services.RecipeService
	favorites     services.FavoriteService
	carts         services.ShoppingCartService
	subscriptions services.SubscriptionService
}

func newUserResponse(u models.User, subscribed bool) models.UserResponse {
	return models.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: subscribed,
	}
}

func (p *presenter) users(ctx context.Context, viewer uint, users []models.User) ([]models.UserResponse, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := p.subscriptions.SubscribedAuthorIDs(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u, subscribed[u.ID]))
	}
	return out, nil
}

func (p *presenter) user(ctx context.Context, viewer uint, u models.User) (models.UserResponse, error) {
	out, err := p.users(ctx, viewer, []models.User{u})
	if err != nil {
		return models.UserResponse{}, err
	}
	return out[0], nil
}

func (p *presenter) recipeList(ctx context.Context, viewer uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := p.favorites.FavoritedRecipeIDs(ctx, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := p.carts.InCartRecipeIDs(ctx, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := p.subscriptions.SubscribedAuthorIDs(ctx, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		ingredients := make([]models.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ingredients = append(ingredients, models.RecipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}

		out = append(out, models.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           newUserResponse(r.Author, subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

func (p *presenter) recipe(ctx context.Context, viewer uint, r models.Recipe) (models.RecipeResponse, error) {
	out, err := p.recipeList(ctx, viewer, []models.Recipe{r})
	if err != nil {
		return models.RecipeResponse{}, err
	}
	return out[0], nil
}

// subscription renders an author the viewer follows with a limited list of their recipes
func (p *presenter) subscription(ctx context.Context, author models.User, limit int) (models.SubscriptionResponse, error) {
	recipes, total, err := p.recipes.RecipesByAuthor(ctx, author.ID, limit)
	if err != nil {
		return models.SubscriptionResponse{}, err
	}

	short := make([]models.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, models.NewRecipeShortResponse(r))
	}
	return models.SubscriptionResponse{
		UserResponse: newUserResponse(author, true),
		Recipes:      short,
		RecipesCount: total,
	}, nil
}
