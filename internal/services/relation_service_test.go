package services

import (
	"context"
	"strings"
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.user(t, "author")
	fan := f.user(t, "fan")
	tag := f.tag(t, "salad")
	tomato := f.ingredient(t, "tomato", "pcs")
	recipe := f.recipe(t, author, recipeRequest("Greek salad", tag, models.RecipeIngredientInput{ID: tomato.ID, Amount: 2}))

	added, err := f.favorites.AddFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greek salad", added.Name)

	_, err = f.favorites.AddFavorite(ctx, fan.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorited)

	_, err = f.favorites.AddFavorite(ctx, fan.ID, 4242)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	flagged, err := f.favorites.FavoritedRecipeIDs(ctx, fan.ID, []uint{recipe.ID, 4242})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{recipe.ID: true}, flagged)

	flagged, err = f.favorites.FavoritedRecipeIDs(ctx, 0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, flagged)

	require.NoError(t, f.favorites.RemoveFavorite(ctx, fan.ID, recipe.ID))
	assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, fan.ID, recipe.ID), ErrNotFavorited)
	assert.ErrorIs(t, f.favorites.RemoveFavorite(ctx, fan.ID, 4242), ErrRecipeNotFound)
}

func TestShoppingCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.user(t, "author")
	buyer := f.user(t, "buyer")
	tag := f.tag(t, "soup")
	beet := f.ingredient(t, "beet", "pcs")
	recipe := f.recipe(t, author, recipeRequest("Borscht", tag, models.RecipeIngredientInput{ID: beet.ID, Amount: 2}))

	_, err := f.carts.AddToCart(ctx, buyer.ID, recipe.ID)
	require.NoError(t, err)

	_, err = f.carts.AddToCart(ctx, buyer.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	// The author's cart is independent
	_, err = f.carts.AddToCart(ctx, author.ID, recipe.ID)
	require.NoError(t, err)

	flagged, err := f.carts.InCartRecipeIDs(ctx, buyer.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.True(t, flagged[recipe.ID])

	require.NoError(t, f.carts.RemoveFromCart(ctx, buyer.ID, recipe.ID))
	assert.ErrorIs(t, f.carts.RemoveFromCart(ctx, buyer.ID, recipe.ID), ErrNotInCart)
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reader := f.user(t, "reader")
	zoe := f.user(t, "zoe")
	adam := f.user(t, "adam")

	t.Run("self subscription always fails", func(t *testing.T) {
		_, err := f.subscriptions.Subscribe(ctx, reader.ID, reader.ID)
		assert.ErrorIs(t, err, ErrSelfSubscription)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := f.subscriptions.Subscribe(ctx, reader.ID, 31337)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("subscribe and list", func(t *testing.T) {
		author, err := f.subscriptions.Subscribe(ctx, reader.ID, zoe.ID)
		require.NoError(t, err)
		assert.Equal(t, "zoe", author.Username)

		_, err = f.subscriptions.Subscribe(ctx, reader.ID, adam.ID)
		require.NoError(t, err)

		authors, err := f.subscriptions.ListSubscriptions(ctx, reader.ID)
		require.NoError(t, err)
		require.Len(t, authors, 2)
		assert.Equal(t, "adam", authors[0].Username)
		assert.Equal(t, "zoe", authors[1].Username)
	})

	t.Run("duplicate subscription fails", func(t *testing.T) {
		_, err := f.subscriptions.Subscribe(ctx, reader.ID, zoe.ID)
		assert.ErrorIs(t, err, ErrAlreadySubscribed)
	})

	t.Run("subscribed flags", func(t *testing.T) {
		flags, err := f.subscriptions.SubscribedAuthorIDs(ctx, reader.ID, []uint{zoe.ID, adam.ID, reader.ID})
		require.NoError(t, err)
		assert.Equal(t, map[uint]bool{zoe.ID: true, adam.ID: true}, flags)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		require.NoError(t, f.subscriptions.Unsubscribe(ctx, reader.ID, zoe.ID))
		assert.ErrorIs(t, f.subscriptions.Unsubscribe(ctx, reader.ID, zoe.ID), ErrNotSubscribed)
		assert.ErrorIs(t, f.subscriptions.Unsubscribe(ctx, reader.ID, 31337), ErrUserNotFound)
	})
}

func TestUserService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := models.RegisterUserRequest{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "s3cret-pass",
	}

	user, err := f.users.CreateUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	t.Run("duplicate email", func(t *testing.T) {
		dup := req
		dup.Username = "other"
		_, err := f.users.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := req
		dup.Email = "other@example.com"
		_, err := f.users.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("username rules apply outside request binding", func(t *testing.T) {
		for _, name := range []string{"a", "o'neil", "two words"} {
			bad := req
			bad.Email = "bad-" + strings.ReplaceAll(name, " ", "") + "@example.com"
			bad.Username = name
			_, err := f.users.CreateUser(ctx, bad)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr, name)
			assert.Equal(t, "username", verr.Field)
		}
	})

	t.Run("lookup by email is case insensitive", func(t *testing.T) {
		found, err := f.users.GetUserByEmail(ctx, "COOK@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("set password", func(t *testing.T) {
		assert.ErrorIs(t, f.users.SetPassword(ctx, user.ID, "wrong", "new-password"), ErrInvalidCredentials)
		require.NoError(t, f.users.SetPassword(ctx, user.ID, "s3cret-pass", "new-password"))

		reloaded, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.CheckPassword("new-password"))
	})

	t.Run("avatar", func(t *testing.T) {
		_, err := f.users.SetAvatar(ctx, user.ID, " ")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)

		updated, err := f.users.SetAvatar(ctx, user.ID, "data:image/png;base64,AAAA")
		require.NoError(t, err)
		require.NotNil(t, updated.Avatar)

		require.NoError(t, f.users.DeleteAvatar(ctx, user.ID))
		reloaded, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.Avatar)
	})

	t.Run("set role", func(t *testing.T) {
		require.NoError(t, f.users.SetRole(ctx, user.ID, models.RoleAdmin))
		reloaded, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.IsAdmin())

		var verr *ValidationError
		assert.ErrorAs(t, f.users.SetRole(ctx, user.ID, "root"), &verr)
		assert.ErrorIs(t, f.users.SetRole(ctx, 999, models.RoleUser), ErrUserNotFound)
	})

	t.Run("list", func(t *testing.T) {
		users, err := f.users.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})
}
