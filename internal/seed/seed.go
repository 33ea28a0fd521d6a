package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
	"marketplace_api/internal/service"
)

// DefaultPassword is the password every seeded seller logs in with.
const DefaultPassword = "password123"

type Options struct {
	Sellers           int
	ProductsPerSeller int
	Categories        int
	Users             int
}

func DefaultOptions() Options {
	return Options{Sellers: 3, ProductsPerSeller: 4, Categories: 4, Users: 5}
}

// Result counts what Run created.
type Result struct {
	Sellers    int
	Categories int
	Products   int
	Users      int
	Reviews    int
}

// Seeder fills the store with fake demo data through the services.
type Seeder struct {
	sellers    *service.SellerService
	products   *service.ProductService
	categories *service.CategoryService
	users      *service.UserService
	reviews    *service.ReviewService
	log        *zap.Logger
	rnd        *rand.Rand
}

func NewSeeder(store *repository.Store, bcryptCost int, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		sellers:    service.NewSellerService(store, bcryptCost, log),
		products:   service.NewProductService(store, log),
		categories: service.NewCategoryService(store),
		users:      service.NewUserService(store),
		reviews:    service.NewReviewService(store),
		log:        log.Named("seed"),
		rnd:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Run creates categories, sellers with products and inventory, users and reviews.
// Unique names carry a per-run tag so repeated runs never collide.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	tag := strings.ToLower(faker.Word()) + fmt.Sprint(s.rnd.IntN(100000))

	// -------- Categories --------
	var categoryIDs []int64
	for i := 0; i < opts.Categories; i++ {
		req := &dto.CreateCategoryRequest{
			Name:        truncate(fmt.Sprintf("%s %d %s", faker.Word(), i+1, tag), 50),
			Description: ptr(faker.Sentence()),
		}
		// every other category nests under the first one
		if i > 0 && i%2 == 0 {
			req.ParentID = &categoryIDs[0]
		}
		c, err := s.categories.Create(ctx, req)
		if err != nil {
			return res, fmt.Errorf("seed category: %w", err)
		}
		categoryIDs = append(categoryIDs, c.ID)
		res.Categories++
	}

	// -------- Sellers, products, inventory --------
	var productIDs []int64
	for i := 0; i < opts.Sellers; i++ {
		seller, err := s.sellers.Create(ctx, &dto.CreateSellerRequest{
			Name:     truncate(faker.Name(), 100),
			Email:    fmt.Sprintf("seller%d.%s@example.com", i+1, tag),
			Password: DefaultPassword,
			Address:  ptr(truncate(faker.Sentence(), 500)),
		})
		if err != nil {
			return res, fmt.Errorf("seed seller: %w", err)
		}
		res.Sellers++

		if _, err := s.sellers.CreateProfile(ctx, seller.ID, &dto.SellerProfileRequest{
			Bio:         ptr(faker.Paragraph()),
			Website:     ptr(fmt.Sprintf("https://%s-%d.example.com", tag, seller.ID)),
			SocialMedia: map[string]string{"instagram": "@" + tag + fmt.Sprint(seller.ID)},
		}); err != nil {
			return res, fmt.Errorf("seed profile: %w", err)
		}

		for j := 0; j < opts.ProductsPerSeller; j++ {
			p, err := s.products.CreateForSeller(ctx, seller.ID, &dto.CreateProductRequest{
				Name:        truncate(fmt.Sprintf("%s %s %d", faker.Word(), faker.Name(), j+1), 100),
				Description: ptr(faker.Sentence()),
				Price:       s.price(),
				Status:      model.ProductStatuses[s.rnd.IntN(len(model.ProductStatuses))],
				CategoryIDs: s.pick(categoryIDs, 2),
			})
			if err != nil {
				return res, fmt.Errorf("seed product: %w", err)
			}
			productIDs = append(productIDs, p.ID)
			res.Products++

			if _, err := s.products.CreateInventory(ctx, p.ID, &dto.CreateInventoryRequest{
				Quantity:     ptr(s.rnd.IntN(40)),
				ReorderLevel: ptr(model.DefaultReorderLevel),
			}); err != nil {
				return res, fmt.Errorf("seed inventory: %w", err)
			}
		}
	}

	// -------- Users and reviews --------
	for i := 0; i < opts.Users; i++ {
		u, err := s.users.Create(ctx, &dto.CreateUserRequest{
			Username: truncate(fmt.Sprintf("%s_%d_%s", strings.ToLower(faker.Word()), i+1, tag), 50),
			Email:    fmt.Sprintf("user%d.%s@example.com", i+1, tag),
		})
		if err != nil {
			return res, fmt.Errorf("seed user: %w", err)
		}
		res.Users++

		for _, productID := range s.pick(productIDs, 2) {
			if _, err := s.reviews.Create(ctx, &dto.CreateReviewRequest{
				ProductID: productID,
				UserID:    &u.ID,
				Rating:    1 + s.rnd.IntN(5),
				Comment:   ptr(faker.Sentence()),
			}); err != nil {
				return res, fmt.Errorf("seed review: %w", err)
			}
			res.Reviews++
		}
	}

	s.log.Info("seed done",
		zap.Int("sellers", res.Sellers),
		zap.Int("categories", res.Categories),
		zap.Int("products", res.Products),
		zap.Int("users", res.Users),
		zap.Int("reviews", res.Reviews),
	)
	return res, nil
}

// price is between 1 and 250 with two decimals.
func (s *Seeder) price() float64 {
	f, _ := decimal.NewFromFloat(1 + s.rnd.Float64()*249).Round(2).Float64()
	return f
}

// pick returns up to n distinct ids.
func (s *Seeder) pick(ids []int64, n int) []int64 {
	if len(ids) == 0 {
		return nil
	}
	perm := s.rnd.Perm(len(ids))
	if n > len(ids) {
		n = len(ids)
	}
	out := make([]int64, 0, n)
	for _, i := range perm[:n] {
		out = append(out, ids[i])
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func ptr[T any](v T) *T { return &v }
