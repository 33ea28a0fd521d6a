package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
	"marketplace_api/internal/testutil"
)

type services struct {
	t          *testing.T
	ctx        context.Context
	db         *gorm.DB
	sellers    *SellerService
	products   *ProductService
	categories *CategoryService
	users      *UserService
	reviews    *ReviewService
}

func newServices(t *testing.T) *services {
	return newServicesOn(t, testutil.NewDB(t))
}

func newServicesOn(t *testing.T, db *gorm.DB) *services {
	store := repository.NewStore(db)
	return &services{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		sellers:    NewSellerService(store, bcrypt.MinCost, nil),
		products:   NewProductService(store, nil),
		categories: NewCategoryService(store),
		users:      NewUserService(store),
		reviews:    NewReviewService(store),
	}
}

func (s *services) seller(email string) *dto.SellerResponse {
	resp, err := s.sellers.Create(s.ctx, &dto.CreateSellerRequest{Name: "Seller", Email: email, Password: "password123"})
	require.NoError(s.t, err)
	return resp
}

func (s *services) product(sellerID int64, name string, price float64, categoryIDs ...int64) *dto.ProductResponse {
	resp, err := s.products.CreateForSeller(s.ctx, sellerID, &dto.CreateProductRequest{Name: name, Price: price, CategoryIDs: categoryIDs})
	require.NoError(s.t, err)
	return resp
}

func (s *services) category(name string, parentID *int64) *dto.CategoryResponse {
	resp, err := s.categories.Create(s.ctx, &dto.CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(s.t, err)
	return resp
}

func (s *services) count(m interface{}) int64 {
	var n int64
	require.NoError(s.t, s.db.Model(m).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	appErr, ok := AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
}

// ==================== Errors ====================

func TestAppError_IsMatchesKindAndCode(t *testing.T) {
	copied := *ErrCategoryNotFound
	copied.Message = "Category not found: 9"

	assert.ErrorIs(t, &copied, ErrCategoryNotFound)
	assert.NotErrorIs(t, &copied, ErrProductNotFound)
}

func TestTranslate_DuplicateKey(t *testing.T) {
	assert.Equal(t, ErrEmailTaken, translate(gorm.ErrDuplicatedKey, ErrEmailTaken))
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey, nil), gorm.ErrDuplicatedKey)
	assert.NoError(t, translate(nil, ErrEmailTaken))
	assert.Equal(t, ErrSellerNotFound, translate(ErrSellerNotFound, nil))
}

// ==================== Sellers ====================

func TestSellerService_CreateHashesPasswordAndNormalizesEmail(t *testing.T) {
	s := newServices(t)

	resp := s.seller("  Alice@Example.COM ")
	assert.Equal(t, "alice@example.com", resp.Email)

	var stored model.Seller
	require.NoError(t, s.db.First(&stored, resp.ID).Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
}

func TestSellerService_CreateDuplicateEmail(t *testing.T) {
	s := newServices(t)
	s.seller("dup@example.com")

	_, err := s.sellers.Create(s.ctx, &dto.CreateSellerRequest{Name: "Other", Email: "DUP@example.com", Password: "password123"})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assertKind(t, err, KindConflict)
	assert.Equal(t, int64(1), s.count(&model.Seller{}))
}

func TestSellerService_PasswordTooLong(t *testing.T) {
	s := newServices(t)
	long := strings.Repeat("a", 100)

	_, err := s.sellers.Create(s.ctx, &dto.CreateSellerRequest{Name: "A", Email: "a@example.com", Password: long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assertKind(t, err, KindValidation)
	assert.Equal(t, int64(0), s.count(&model.Seller{}))

	created := s.seller("b@example.com")
	_, err = s.sellers.Update(s.ctx, created.ID, &dto.UpdateSellerRequest{Password: &long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestSellerService_UpdatePartial(t *testing.T) {
	s := newServices(t)
	created := s.seller("a@example.com")
	taken := s.seller("b@example.com")

	updated, err := s.sellers.Update(s.ctx, created.ID, &dto.UpdateSellerRequest{Phone: ptr("555-0100")})
	require.NoError(t, err)
	assert.Equal(t, "Seller", updated.Name)
	assert.Equal(t, "a@example.com", updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0100", *updated.Phone)

	_, err = s.sellers.Update(s.ctx, created.ID, &dto.UpdateSellerRequest{Email: ptr(taken.Email)})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.sellers.Update(s.ctx, 999, &dto.UpdateSellerRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrSellerNotFound)
}

func TestSellerService_DeleteCascades(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	other := s.seller("b@example.com")
	cat := s.category("Books", nil)
	product := s.product(seller.ID, "Novel", 20, cat.ID)
	_, err := s.products.CreateInventory(s.ctx, product.ID, &dto.CreateInventoryRequest{Quantity: ptr(3)})
	require.NoError(t, err)
	_, err = s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)
	require.NoError(t, s.sellers.Follow(s.ctx, other.ID, seller.ID))

	require.NoError(t, s.sellers.Delete(s.ctx, seller.ID))

	assert.Equal(t, int64(1), s.count(&model.Seller{}))
	assert.Equal(t, int64(0), s.count(&model.Product{}))
	assert.Equal(t, int64(0), s.count(&model.Inventory{}))
	assert.Equal(t, int64(0), s.count(&model.Review{}))
	assert.Equal(t, int64(0), s.count(&model.SellerFollower{}))
	assert.Equal(t, int64(1), s.count(&model.Category{}))

	_, err = s.sellers.Get(s.ctx, seller.ID)
	assert.ErrorIs(t, err, ErrSellerNotFound)
	assert.ErrorIs(t, s.sellers.Delete(s.ctx, seller.ID), ErrSellerNotFound)
}

func TestSellerService_StatisticsEmpty(t *testing.T) {
	s := newServices(t)

	stats, err := s.sellers.Statistics(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, &dto.SellerStatisticsResponse{}, stats)
}

func TestSellerService_Statistics(t *testing.T) {
	s := newServices(t)
	a := s.seller("a@example.com")
	b := s.seller("b@example.com")
	s.product(a.ID, "one", 10)
	s.product(a.ID, "two", 20)
	s.product(b.ID, "three", 30.5)

	stats, err := s.sellers.Statistics(s.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSellers)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, 20.17, stats.AveragePrice)
	assert.Equal(t, 30.5, stats.MaxPrice)
	assert.Equal(t, 10.0, stats.MinPrice)
}

func TestSellerService_ProductsAndCount(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	s.product(seller.ID, "one", 10)
	s.product(seller.ID, "two", 20)

	count, err := s.sellers.ProductCount(s.ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.ProductCount)

	products, err := s.sellers.Products(s.ctx, seller.ID, &dto.PageQuery{Skip: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "two", products[0].Name)

	_, err = s.sellers.ProductCount(s.ctx, 999)
	assert.ErrorIs(t, err, ErrSellerNotFound)
}

func TestSellerService_Profile(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")

	_, err := s.sellers.GetProfile(s.ctx, seller.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	created, err := s.sellers.CreateProfile(s.ctx, seller.ID, &dto.SellerProfileRequest{
		Bio:         ptr("Handmade goods"),
		SocialMedia: map[string]string{"instagram": "@alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"instagram": "@alice"}, created.SocialMedia)

	_, err = s.sellers.CreateProfile(s.ctx, seller.ID, &dto.SellerProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileExists)

	updated, err := s.sellers.UpdateProfile(s.ctx, seller.ID, &dto.SellerProfileRequest{Website: ptr("https://alice.example.com")})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Handmade goods", *updated.Bio)
	assert.Equal(t, "https://alice.example.com", *updated.Website)
	assert.Equal(t, map[string]string{"instagram": "@alice"}, updated.SocialMedia)

	detail, err := s.sellers.Detailed(s.ctx, seller.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, created.ID, detail.Profile.ID)
}

func TestSellerService_Follow(t *testing.T) {
	s := newServices(t)
	a := s.seller("a@example.com")
	b := s.seller("b@example.com")

	assert.ErrorIs(t, s.sellers.Follow(s.ctx, a.ID, a.ID), ErrSelfFollow)
	require.NoError(t, s.sellers.Follow(s.ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.sellers.Follow(s.ctx, a.ID, b.ID), ErrAlreadyFollowing)
	assert.ErrorIs(t, s.sellers.Follow(s.ctx, a.ID, 999), ErrSellerNotFound)
	assert.ErrorIs(t, s.sellers.Follow(s.ctx, 999, 999), ErrSellerNotFound)
	assert.ErrorIs(t, s.sellers.Follow(s.ctx, 999, a.ID), ErrSellerNotFound)

	followers, err := s.sellers.Followers(s.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, a.ID, followers[0].ID)

	following, err := s.sellers.Following(s.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, b.ID, following[0].ID)

	detail, err := s.sellers.Detailed(s.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.FollowersCount)
	assert.Equal(t, int64(0), detail.FollowingCount)

	require.NoError(t, s.sellers.Unfollow(s.ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.sellers.Unfollow(s.ctx, a.ID, b.ID), ErrNotFollowing)
}

func TestSellerService_Login(t *testing.T) {
	s := newServices(t)
	seller := s.seller("login@example.com")

	resp, err := s.sellers.Login(s.ctx, &dto.SellerLoginRequest{Email: "LOGIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, seller.ID, resp.Seller.ID)

	_, err = s.sellers.Login(s.ctx, &dto.SellerLoginRequest{Email: "login@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.sellers.Login(s.ctx, &dto.SellerLoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== Products ====================

func TestProductService_CreateDefaultsAndCategories(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	c1 := s.category("Art", nil)
	c2 := s.category("Decor", nil)

	product := s.product(seller.ID, "Print", 150, c2.ID, c1.ID, c2.ID)

	assert.Equal(t, model.ProductStatusActive, product.Status)
	assert.True(t, product.IsExpensive)
	require.Len(t, product.Categories, 2)
	assert.Equal(t, c1.ID, product.Categories[0].ID)
	assert.Equal(t, c2.ID, product.Categories[1].ID)
}

func TestProductService_CreateUnknownCategoryWritesNothing(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	cat := s.category("Art", nil)

	_, err := s.products.CreateForSeller(s.ctx, seller.ID, &dto.CreateProductRequest{
		Name: "Print", Price: 10, CategoryIDs: []int64{cat.ID, 999},
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Contains(t, err.Error(), "999")
	assert.Equal(t, int64(0), s.count(&model.Product{}))
	assert.Equal(t, int64(0), s.count(&model.ProductCategory{}))
}

func TestProductService_CreateRules(t *testing.T) {
	s := newServices(t)
	a := s.seller("a@example.com")
	b := s.seller("b@example.com")
	s.product(a.ID, "Mug", 10)

	_, err := s.products.CreateForSeller(s.ctx, a.ID, &dto.CreateProductRequest{Name: "Mug", Price: 12})
	assert.ErrorIs(t, err, ErrProductNameTaken)

	s.product(b.ID, "Mug", 12)

	_, err = s.products.CreateForSeller(s.ctx, 999, &dto.CreateProductRequest{Name: "Mug", Price: 12})
	assert.ErrorIs(t, err, ErrSellerNotFound)
}

func TestProductService_UpdateReplacesCategoriesOnlyWhenPresent(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	c1 := s.category("Art", nil)
	c2 := s.category("Decor", nil)
	product := s.product(seller.ID, "Print", 50, c1.ID)

	updated, err := s.products.Update(s.ctx, product.ID, &dto.UpdateProductRequest{Price: ptr(120.0)})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)
	assert.True(t, updated.IsExpensive)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, c1.ID, updated.Categories[0].ID)

	updated, err = s.products.Update(s.ctx, product.ID, &dto.UpdateProductRequest{CategoryIDs: []int64{c2.ID}})
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, c2.ID, updated.Categories[0].ID)

	updated, err = s.products.Update(s.ctx, product.ID, &dto.UpdateProductRequest{CategoryIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Categories)

	_, err = s.products.Update(s.ctx, product.ID, &dto.UpdateProductRequest{Price: ptr(1.0), CategoryIDs: []int64{999}})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	got, err := s.products.Get(s.ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Price)
}

func TestProductService_CategoryLinks(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	cat := s.category("Art", nil)
	other := s.category("Decor", nil)
	product := s.product(seller.ID, "Print", 50)

	require.NoError(t, s.products.AddCategory(s.ctx, product.ID, cat.ID))
	err := s.products.AddCategory(s.ctx, product.ID, cat.ID)
	assert.ErrorIs(t, err, ErrCategoryAssigned)
	assertKind(t, err, KindConflict)

	err = s.products.RemoveCategory(s.ctx, product.ID, other.ID)
	assert.ErrorIs(t, err, ErrCategoryNotAssigned)
	assertKind(t, err, KindBadRequest)

	assert.ErrorIs(t, s.products.AddCategory(s.ctx, product.ID, 999), ErrCategoryNotFound)
	assert.ErrorIs(t, s.products.AddCategory(s.ctx, 999, cat.ID), ErrProductNotFound)

	categories, err := s.products.Categories(s.ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	products, err := s.categories.Products(s.ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)

	require.NoError(t, s.products.RemoveCategory(s.ctx, product.ID, cat.ID))
	assert.Equal(t, int64(0), s.count(&model.ProductCategory{}))
}

func TestProductService_Inventory(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	product := s.product(seller.ID, "Print", 50)

	_, err := s.products.GetInventory(s.ctx, product.ID)
	assert.ErrorIs(t, err, ErrInventoryNotFound)

	inv, err := s.products.CreateInventory(s.ctx, product.ID, &dto.CreateInventoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)
	assert.Equal(t, model.DefaultReorderLevel, inv.ReorderLevel)
	assert.True(t, inv.NeedsReorder)

	_, err = s.products.CreateInventory(s.ctx, product.ID, &dto.CreateInventoryRequest{Quantity: ptr(5)})
	assert.ErrorIs(t, err, ErrInventoryExists)

	inv, err = s.products.UpdateInventory(s.ctx, product.ID, &dto.UpdateInventoryRequest{Quantity: ptr(25)})
	require.NoError(t, err)
	assert.Equal(t, 25, inv.Quantity)
	assert.Equal(t, model.DefaultReorderLevel, inv.ReorderLevel)
	assert.False(t, inv.NeedsReorder)

	_, err = s.products.CreateInventory(s.ctx, 999, &dto.CreateInventoryRequest{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_SearchAndExpensive(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	cat := s.category("Art", nil)
	s.product(seller.ID, "Cheap Print", 20, cat.ID)
	s.product(seller.ID, "Fine Print", 250, cat.ID)
	s.product(seller.ID, "Vase", 300)

	page, err := s.products.Search(s.ctx, &dto.ProductSearchQuery{
		PageQuery:   dto.PageQuery{Limit: 10},
		Name:        "print",
		CategoryIDs: []int64{cat.ID},
		IsExpensive: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fine Print", page.Items[0].Name)

	expensive, err := s.products.Expensive(s.ctx)
	require.NoError(t, err)
	assert.Len(t, expensive, 2)

	list, err := s.products.List(s.ctx, &dto.ProductListQuery{PageQuery: dto.PageQuery{Skip: 0, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Pages)
}

func TestProductService_DetailedAndReviews(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	product := s.product(seller.ID, "Print", 50)

	reviews, err := s.products.Reviews(s.ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, reviews.AverageRating)
	assert.Equal(t, int64(0), reviews.ReviewCount)

	for _, rating := range []int{5, 4, 4} {
		_, err := s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: product.ID, Rating: rating})
		require.NoError(t, err)
	}

	reviews, err = s.products.Reviews(s.ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, reviews.AverageRating)
	assert.Equal(t, 4.33, *reviews.AverageRating)
	assert.Equal(t, int64(3), reviews.ReviewCount)

	detail, err := s.products.Detailed(s.ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Seller)
	assert.Equal(t, seller.ID, detail.Seller.ID)
	assert.Nil(t, detail.Inventory)
	assert.Equal(t, 4.33, *detail.AverageRating)

	status, err := s.products.PriceStatus(s.ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, status.IsExpensive)
}

func TestProductService_DeleteCascades(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	cat := s.category("Art", nil)
	product := s.product(seller.ID, "Print", 50, cat.ID)
	_, err := s.products.CreateInventory(s.ctx, product.ID, &dto.CreateInventoryRequest{})
	require.NoError(t, err)

	require.NoError(t, s.products.Delete(s.ctx, product.ID))
	assert.Equal(t, int64(0), s.count(&model.Inventory{}))
	assert.Equal(t, int64(0), s.count(&model.ProductCategory{}))
	assert.Equal(t, int64(1), s.count(&model.Category{}))
	assert.ErrorIs(t, s.products.Delete(s.ctx, product.ID), ErrProductNotFound)
}

// ==================== Categories ====================

func TestCategoryService_Hierarchy(t *testing.T) {
	s := newServices(t)
	root := s.category("Home", nil)
	child := s.category("Kitchen", &root.ID)
	grandchild := s.category("Cutlery", &child.ID)

	_, err := s.categories.Create(s.ctx, &dto.CreateCategoryRequest{Name: "Home"})
	assert.ErrorIs(t, err, ErrCategoryNameTaken)

	_, err = s.categories.Create(s.ctx, &dto.CreateCategoryRequest{Name: "Orphan", ParentID: ptr(int64(999))})
	assert.ErrorIs(t, err, ErrParentNotFound)

	parent, err := s.categories.Parent(s.ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, parent.ID)

	_, err = s.categories.Parent(s.ctx, root.ID)
	assert.ErrorIs(t, err, ErrNoParent)

	subs, err := s.categories.Subcategories(s.ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, child.ID, subs[0].ID)

	_, err = s.categories.Update(s.ctx, root.ID, &dto.UpdateCategoryRequest{ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)
	assertKind(t, err, KindBadRequest)

	_, err = s.categories.Update(s.ctx, root.ID, &dto.UpdateCategoryRequest{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	detached, err := s.categories.Update(s.ctx, child.ID, &dto.UpdateCategoryRequest{ParentID: ptr(int64(0))})
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)
}

func TestCategoryService_DeleteDetachesChildren(t *testing.T) {
	s := newServices(t)
	root := s.category("Home", nil)
	child := s.category("Kitchen", &root.ID)

	require.NoError(t, s.categories.Delete(s.ctx, root.ID))

	got, err := s.categories.Get(s.ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
	assert.ErrorIs(t, s.categories.Delete(s.ctx, root.ID), ErrCategoryNotFound)
}

// ==================== Users / reviews ====================

func TestUserService_CreateAndUnique(t *testing.T) {
	s := newServices(t)

	user, err := s.users.Create(s.ctx, &dto.CreateUserRequest{Username: "alice", Email: "Alice@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = s.users.Create(s.ctx, &dto.CreateUserRequest{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = s.users.Create(s.ctx, &dto.CreateUserRequest{Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := s.users.Update(s.ctx, user.ID, &dto.UpdateUserRequest{Username: ptr("alice")})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestUserService_DeleteKeepsReviews(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	product := s.product(seller.ID, "Print", 50)
	user, err := s.users.Create(s.ctx, &dto.CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	review, err := s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: product.ID, UserID: &user.ID, Rating: 4})
	require.NoError(t, err)
	require.NotNil(t, review.User)

	byUser, err := s.users.Reviews(s.ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	require.NoError(t, s.users.Delete(s.ctx, user.ID))

	kept, err := s.reviews.Get(s.ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.UserID)
	assert.Nil(t, kept.User)
	assert.ErrorIs(t, s.users.Delete(s.ctx, user.ID), ErrUserNotFound)
}

func TestReviewService_Lifecycle(t *testing.T) {
	s := newServices(t)
	seller := s.seller("a@example.com")
	product := s.product(seller.ID, "Print", 50)

	_, err := s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: 999, Rating: 3})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: product.ID, UserID: ptr(int64(999)), Rating: 3})
	assert.ErrorIs(t, err, ErrUserNotFound)

	review, err := s.reviews.Create(s.ctx, &dto.CreateReviewRequest{ProductID: product.ID, Rating: 3, Comment: ptr("ok")})
	require.NoError(t, err)

	updated, err := s.reviews.Update(s.ctx, review.ID, &dto.UpdateReviewRequest{Rating: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "ok", *updated.Comment)

	require.NoError(t, s.reviews.Delete(s.ctx, review.ID))
	assert.ErrorIs(t, s.reviews.Delete(s.ctx, review.ID), ErrReviewNotFound)
}
