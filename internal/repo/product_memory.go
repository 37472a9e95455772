package repo

import (
	"slices"
	"sync"

	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

// DefaultCategories seeds the development API.
var DefaultCategories = []models.Category{
	{ID: 1, Name: "Dairy"},
	{ID: 2, Name: "Bakery"},
	{ID: 3, Name: "Produce"},
	{ID: 4, Name: "Beverages"},
}

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu         sync.Mutex
	products   []models.Product
	categories []models.Category
	nextID     int
}

// NewInMemoryProductRepository creates a repository knowing the given categories.
func NewInMemoryProductRepository(categories []models.Category) *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products:   []models.Product{},
		categories: slices.Clone(categories),
		nextID:     1,
	}
}

func (r *InMemoryProductRepository) categoryNames() map[int]string {
	names := make(map[int]string, len(r.categories))
	for _, c := range r.categories {
		names[c.ID] = c.Name
	}
	return names
}

func (r *InMemoryProductRepository) withCategory(p models.Product) models.ProductWithCategory {
	return models.ProductWithCategory{Product: p, Category: r.categoryNames()[p.CategoryID]}
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(np models.NewProduct) (models.ProductWithCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateProduct(np.Name, np.UnitPrice, np.Stock, np.CategoryID, r.categoryNames()); err != nil {
		return models.ProductWithCategory{}, err
	}

	product := np.WithID(r.nextID)
	r.nextID++
	r.products = append(r.products, product)
	return r.withCategory(product), nil
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll() ([]models.ProductWithCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ProductWithCategory, len(r.products))
	for i, p := range r.products {
		out[i] = r.withCategory(p)
	}
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(id int) (models.ProductWithCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id {
			return r.withCategory(p), nil
		}
	}
	return models.ProductWithCategory{}, ErrProductNotFound
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(product models.Product) (models.ProductWithCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == product.ID })
	if i < 0 {
		return models.ProductWithCategory{}, ErrProductNotFound
	}
	if err := validateProduct(product.Name, product.UnitPrice, product.Stock, product.CategoryID, r.categoryNames()); err != nil {
		return models.ProductWithCategory{}, err
	}
	r.products[i] = product
	return r.withCategory(product), nil
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryProductRepository) Categories() ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.categories), nil
}
