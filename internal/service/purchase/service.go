package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	apperrors "github.com/parishops/parish-api/pkg/errors"
)

// Service handles the counter inventory and standalone sales that are
// recorded alongside appointment payments on the daily report.
type Service struct {
	repo        repository.PurchaseRepository
	productRepo repository.ProductRepository
}

func NewService(repo repository.PurchaseRepository, productRepo repository.ProductRepository) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

func (s *Service) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		Name:   req.Name,
		Price:  req.Price,
		Stock:  req.Stock,
		Status: model.ProductStatusActive,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("product", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, status string) ([]*model.Product, error) {
	products, err := s.productRepo.List(ctx, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return products, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	if err := s.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("product", err)
		}
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("product", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

// CreatePurchase rings up a standalone sale. Line prices are taken from
// the catalog at sale time, the tendered amount must cover the total,
// and stock is decremented transactionally by the repository.
func (s *Service) CreatePurchase(ctx context.Context, req *model.CreatePurchaseRequest, soldBy uuid.UUID) (*model.Purchase, error) {
	purchase := &model.Purchase{
		AmountTendered: req.AmountTendered,
		SoldBy:         soldBy,
	}

	var total float64
	for _, line := range req.Items {
		product, err := s.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Status != model.ProductStatusActive {
			return nil, apperrors.Conflict(fmt.Sprintf("%s is no longer sold", product.Name))
		}
		if product.Stock < line.Quantity {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"not enough stock for %s: %d requested, %d on hand",
				product.Name, line.Quantity, product.Stock))
		}

		lineTotal := product.Price * float64(line.Quantity)
		total += lineTotal
		purchase.Items = append(purchase.Items, model.PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   lineTotal,
		})
	}

	if req.AmountTendered < total {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"insufficient payment: %.2f tendered, %.2f required (short %.2f)",
			req.AmountTendered, total, total-req.AmountTendered))
	}

	purchase.Total = total
	purchase.ChangeGiven = req.AmountTendered - total

	if err := s.repo.Create(ctx, purchase); err != nil {
		// Stock may have moved between the read and the transactional
		// decrement.
		if isStockError(err) {
			return nil, apperrors.Conflict("stock changed during checkout, please retry")
		}
		return nil, apperrors.Internal(err)
	}
	return purchase, nil
}

func (s *Service) GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("purchase", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return purchase, nil
}

func (s *Service) ListPurchasesByDate(ctx context.Context, date time.Time) ([]*model.Purchase, error) {
	purchases, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return purchases, nil
}

func isStockError(err error) bool {
	return errors.Is(err, repository.ErrInsufficientStock)
}
