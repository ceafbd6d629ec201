package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

const guestIDPrefix = "guest_"

// CartOwner is the lookup key of a cart. UserID takes precedence over
// GuestID when both are set.
type CartOwner struct {
	UserID  uint
	GuestID string
}

func (o CartOwner) IsZero() bool {
	return o.UserID == 0 && o.GuestID == ""
}

func (o CartOwner) fields() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  o.UserID,
		"guest_id": o.GuestID,
	}
}

// CartItemInput identifies a line by (product, color, size).
type CartItemInput struct {
	ProductID uint
	Color     string
	Size      string
	Quantity  int
}

type MergeOutcome string

const (
	MergeNothing    MergeOutcome = "nothing_to_merge"
	MergeUserCart   MergeOutcome = "user_cart"
	MergeReassigned MergeOutcome = "reassigned"
	MergeMerged     MergeOutcome = "merged"
)

// MergeResult is the outcome of folding a guest cart into a user cart. Cart
// is nil only for MergeNothing.
type MergeResult struct {
	Cart         *model.Cart  `json:"cart,omitempty"`
	Outcome      MergeOutcome `json:"outcome"`
	GuestCleanup BestEffort   `json:"guestCleanup"`
}

type CartService interface {
	Resolve(owner CartOwner) (*model.Cart, error)
	AddItem(owner CartOwner, item CartItemInput) (cart *model.Cart, created bool, err error)
	SetItemQuantity(owner CartOwner, item CartItemInput) (*model.Cart, error)
	RemoveItem(owner CartOwner, item CartItemInput) (*model.Cart, error)
	Merge(guestID string, userID uint) (*MergeResult, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Resolve returns the owner's cart, or nil without an error when the owner
// has none.
func (s *cartService) Resolve(owner CartOwner) (*model.Cart, error) {
	var (
		cart *model.Cart
		err  error
	)
	switch {
	case owner.UserID != 0:
		cart, err = s.cartRepo.FindByUserID(owner.UserID)
	case owner.GuestID != "":
		cart, err = s.cartRepo.FindByGuestID(owner.GuestID)
	default:
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("Failed to resolve cart", err, owner.fields())
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(owner CartOwner, item CartItemInput) (*model.Cart, bool, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    owner.UserID,
		"guest_id":   owner.GuestID,
		"product_id": item.ProductID,
		"color":      item.Color,
		"size":       item.Size,
		"quantity":   item.Quantity,
	})

	if item.Quantity < 1 {
		return nil, false, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, false, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": item.ProductID,
		})
		return nil, false, err
	}

	cart, err := s.Resolve(owner)
	if err != nil {
		return nil, false, err
	}

	created := cart == nil
	if created {
		cart = newCart(owner)
	}
	cart.AddLine(model.CartLineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.PrimaryImage(),
		Price:     product.Price,
		Color:     item.Color,
		Size:      item.Size,
		Quantity:  item.Quantity,
	})

	if err := s.cartRepo.Save(cart); err != nil {
		logger.Error("Failed to save cart", err, owner.fields())
		return nil, false, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"cart_id": cart.ID,
		"created": created,
		"items":   len(cart.Products),
		"total":   cart.TotalPrice.String(),
	})
	return cart, created, nil
}

// newCart starts a cart for owner. An anonymous caller gets a fresh guest key.
func newCart(owner CartOwner) *model.Cart {
	cart := &model.Cart{}
	switch {
	case owner.UserID != 0:
		userID := owner.UserID
		cart.UserID = &userID
	case owner.GuestID != "":
		guestID := owner.GuestID
		cart.GuestID = &guestID
	default:
		guestID := guestIDPrefix + uuid.NewString()
		cart.GuestID = &guestID
	}
	return cart
}

// SetItemQuantity overwrites the line quantity. Zero or less removes the line
// and keeps the cart, even when it becomes empty.
func (s *cartService) SetItemQuantity(owner CartOwner, item CartItemInput) (*model.Cart, error) {
	cart, idx, err := s.findLine(owner, item)
	if err != nil {
		return nil, err
	}

	cart.SetQuantityAt(idx, item.Quantity)
	if err := s.cartRepo.Save(cart); err != nil {
		logger.Error("Failed to save cart", err, owner.fields())
		return nil, err
	}

	logger.Info("Cart item quantity updated", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
	return cart, nil
}

func (s *cartService) RemoveItem(owner CartOwner, item CartItemInput) (*model.Cart, error) {
	cart, idx, err := s.findLine(owner, item)
	if err != nil {
		return nil, err
	}

	cart.RemoveAt(idx)
	if err := s.cartRepo.Save(cart); err != nil {
		logger.Error("Failed to save cart", err, owner.fields())
		return nil, err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": item.ProductID,
	})
	return cart, nil
}

func (s *cartService) findLine(owner CartOwner, item CartItemInput) (*model.Cart, int, error) {
	cart, err := s.Resolve(owner)
	if err != nil {
		return nil, -1, err
	}
	if cart == nil {
		logger.Warn("Cart not found", owner.fields())
		return nil, -1, ErrCartNotFound
	}

	idx := cart.IndexOf(item.ProductID, item.Color, item.Size)
	if idx < 0 {
		logger.Warn("Cart item not found", map[string]interface{}{
			"cart_id":    cart.ID,
			"product_id": item.ProductID,
			"color":      item.Color,
			"size":       item.Size,
		})
		return nil, -1, ErrCartItemNotFound
	}
	return cart, idx, nil
}

// Merge folds the guest cart into the user's cart at login. Deleting the
// absorbed guest cart is best-effort.
func (s *cartService) Merge(guestID string, userID uint) (*MergeResult, error) {
	logger.Info("Merging guest cart", map[string]interface{}{
		"guest_id": guestID,
		"user_id":  userID,
	})

	if userID == 0 {
		return nil, ErrCartOwnerRequired
	}

	var guestCart *model.Cart
	if guestID != "" {
		found, err := s.Resolve(CartOwner{GuestID: guestID})
		if err != nil {
			return nil, err
		}
		guestCart = found
	}

	userCart, err := s.Resolve(CartOwner{UserID: userID})
	if err != nil {
		return nil, err
	}

	if guestCart == nil {
		if userCart != nil {
			return &MergeResult{Cart: userCart, Outcome: MergeUserCart}, nil
		}
		return &MergeResult{Outcome: MergeNothing}, nil
	}

	if guestCart.IsEmpty() {
		logger.Warn("Merge rejected: guest cart is empty", map[string]interface{}{
			"guest_id": guestID,
		})
		return nil, ErrGuestCartEmpty
	}

	if userCart == nil {
		guestCart.AssignToUser(userID)
		if err := s.cartRepo.Save(guestCart); err != nil {
			logger.Error("Failed to reassign guest cart", err, map[string]interface{}{
				"cart_id": guestCart.ID,
				"user_id": userID,
			})
			return nil, err
		}

		logger.Info("Guest cart reassigned to user", map[string]interface{}{
			"cart_id": guestCart.ID,
			"user_id": userID,
		})
		return &MergeResult{Cart: guestCart, Outcome: MergeReassigned}, nil
	}

	userCart.Absorb(guestCart)
	if err := s.cartRepo.Save(userCart); err != nil {
		logger.Error("Failed to save merged cart", err, map[string]interface{}{
			"cart_id": userCart.ID,
			"user_id": userID,
		})
		return nil, err
	}

	cleanup := attempted(s.cartRepo.Delete(guestCart.ID))
	if cleanup.Failed() {
		logger.Error("Failed to delete guest cart after merge", cleanup.Err, map[string]interface{}{
			"guest_cart_id": guestCart.ID,
			"user_id":       userID,
		})
	}

	logger.Info("Guest cart merged into user cart", map[string]interface{}{
		"cart_id": userCart.ID,
		"items":   len(userCart.Products),
		"total":   userCart.TotalPrice.String(),
	})
	return &MergeResult{Cart: userCart, Outcome: MergeMerged, GuestCleanup: cleanup}, nil
}
