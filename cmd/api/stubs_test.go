package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/tienda-api/internal/cart"
	"github.com/MikeMC777/tienda-api/internal/catalog"
	"github.com/MikeMC777/tienda-api/internal/coupon"
	"github.com/MikeMC777/tienda-api/internal/order"
	"github.com/MikeMC777/tienda-api/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

//
// ===== STUB REPOS EN MEMORIA =====
//

type stubUserRepo struct {
	users map[string]*user.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: map[string]*user.User{}} }

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, ex := range s.users {
		if ex.Email == u.Email || ex.Username == u.Username {
			return user.ErrAlreadyExist
		}
	}
	cp := *u
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.users[u.ID] = &cp
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *stubUserRepo) List(ctx context.Context, limit, offset int) ([]user.User, error) {
	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) Update(ctx context.Context, u *user.User, updatePassword bool) error {
	cur, ok := s.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	if u.Username != "" {
		cur.Username = u.Username
	}
	if u.Email != "" {
		cur.Email = u.Email
	}
	if updatePassword {
		cur.PasswordHash = u.PasswordHash
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubUserRepo) UpdateRole(ctx context.Context, id, role string) error {
	cur, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	cur.Role = role
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

type stubProductRepo struct {
	items     map[string]*catalog.Product
	lastQuery catalog.Query
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{items: map[string]*catalog.Product{}}
}

func (s *stubProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) List(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	s.lastQuery = q
	out := make([]catalog.Product, 0, len(s.items))
	for _, v := range s.items {
		if q.Q != "" && !containsFold(v.Name, q.Q) && !containsFold(v.Description, q.Q) {
			continue
		}
		out = append(out, *v)
	}
	start := q.Offset
	if start > len(out) {
		return []catalog.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *stubProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, v := range s.items {
		if v.CategoryID == categoryID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Update(ctx context.Context, p *catalog.Product, updatePrice bool) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if p.CategoryID != "" {
		cur.CategoryID = p.CategoryID
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if p.Description != "" {
		cur.Description = p.Description
	}
	if updatePrice && p.Price != "" {
		cur.Price = p.Price
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubProductRepo) GetStock(ctx context.Context, productID string) (int, error) {
	p, ok := s.items[productID]
	if !ok {
		return 0, catalog.ErrNotFound
	}
	return p.Stock, nil
}

func (s *stubProductRepo) SetStock(ctx context.Context, productID string, stock int) error {
	p, ok := s.items[productID]
	if !ok {
		return catalog.ErrNotFound
	}
	p.Stock = stock
	return nil
}

type stubCategoryRepo struct {
	cats     map[string]*catalog.Category
	products *stubProductRepo // for the RESTRICT check
}

func newStubCategoryRepo(products *stubProductRepo) *stubCategoryRepo {
	return &stubCategoryRepo{cats: map[string]*catalog.Category{}, products: products}
}

func (s *stubCategoryRepo) Create(ctx context.Context, c *catalog.Category) error {
	for _, ex := range s.cats {
		if ex.Name == c.Name {
			return catalog.ErrDuplicate
		}
	}
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	s.cats[c.ID] = &cp
	return nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id string) (*catalog.Category, error) {
	c, ok := s.cats[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCategoryRepo) Update(ctx context.Context, c *catalog.Category) error {
	cur, ok := s.cats[c.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if c.Name != "" {
		cur.Name = c.Name
	}
	return nil
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.cats[id]; !ok {
		return false, nil
	}
	if s.products != nil {
		for _, p := range s.products.items {
			if p.CategoryID == id {
				return false, catalog.ErrCategoryInUse
			}
		}
	}
	delete(s.cats, id)
	return true, nil
}

type stubReviewRepo struct {
	reviews  []catalog.Review
	products *stubProductRepo
	users    *stubUserRepo
}

func (s *stubReviewRepo) Create(ctx context.Context, rv *catalog.Review) error {
	if s.products != nil {
		if _, ok := s.products.items[rv.ProductID]; !ok {
			return catalog.ErrBadReference
		}
	}
	if s.users != nil {
		if _, ok := s.users.users[rv.UserID]; !ok {
			return catalog.ErrBadReference
		}
	}
	cp := *rv
	cp.CreatedAt = time.Now().UTC()
	s.reviews = append(s.reviews, cp)
	return nil
}

func (s *stubReviewRepo) ListByProduct(ctx context.Context, productID string) ([]catalog.Review, error) {
	var out []catalog.Review
	for _, rv := range s.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type stubCartRepo struct {
	carts    map[string]*cart.Cart // keyed by user id
	items    map[string]*cart.Item
	wishes   map[string][]string // user id -> product ids
	users    *stubUserRepo
	clearErr error // forced Clear failure
}

func newStubCartRepo(users *stubUserRepo) *stubCartRepo {
	return &stubCartRepo{
		carts:  map[string]*cart.Cart{},
		items:  map[string]*cart.Item{},
		wishes: map[string][]string{},
		users:  users,
	}
}

func (s *stubCartRepo) GetOrCreate(ctx context.Context, userID string) (*cart.Cart, error) {
	if s.users != nil {
		if _, ok := s.users.users[userID]; !ok {
			return nil, cart.ErrBadReference
		}
	}
	if ct, ok := s.carts[userID]; ok {
		cp := *ct
		return &cp, nil
	}
	ct := &cart.Cart{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	s.carts[userID] = ct
	cp := *ct
	return &cp, nil
}

func (s *stubCartRepo) GetItems(ctx context.Context, cartID string) ([]cart.Item, error) {
	var out []cart.Item
	for _, it := range s.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *stubCartRepo) AddItem(ctx context.Context, it *cart.Item) error {
	for _, ex := range s.items {
		if ex.CartID == it.CartID && ex.ProductID == it.ProductID {
			ex.Quantity += it.Quantity
			*it = *ex
			return nil
		}
	}
	cp := *it
	cp.CreatedAt = time.Now().UTC()
	s.items[it.ID] = &cp
	return nil
}

func (s *stubCartRepo) GetItem(ctx context.Context, itemID string) (*cart.Item, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *stubCartRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	it, ok := s.items[itemID]
	if !ok {
		return cart.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, itemID string) (bool, error) {
	if _, ok := s.items[itemID]; !ok {
		return false, nil
	}
	delete(s.items, itemID)
	return true, nil
}

func (s *stubCartRepo) Clear(ctx context.Context, cartID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	for id, it := range s.items {
		if it.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubCartRepo) AddWish(ctx context.Context, userID, productID string) error {
	for _, p := range s.wishes[userID] {
		if p == productID {
			return nil
		}
	}
	s.wishes[userID] = append(s.wishes[userID], productID)
	return nil
}

func (s *stubCartRepo) ListWishes(ctx context.Context, userID string) ([]string, error) {
	return s.wishes[userID], nil
}

func (s *stubCartRepo) RemoveWish(ctx context.Context, userID, productID string) (bool, error) {
	list := s.wishes[userID]
	for i, p := range list {
		if p == productID {
			s.wishes[userID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// stubOrderRepo implements order.Repository in memory. Stock checks
// run against the product stub, matching what the real repo does in
// its transaction.
type stubOrderRepo struct {
	orders    map[string]*order.Order
	items     map[string][]order.Item
	payments  map[string]*order.Payment  // by order id
	shippings map[string]*order.Shipping // by order id
	products  *stubProductRepo
}

func newStubOrderRepo(products *stubProductRepo) *stubOrderRepo {
	return &stubOrderRepo{
		orders:    map[string]*order.Order{},
		items:     map[string][]order.Item{},
		payments:  map[string]*order.Payment{},
		shippings: map[string]*order.Shipping{},
		products:  products,
	}
}

func (s *stubOrderRepo) Create(ctx context.Context, o *order.Order, items []order.Item) error {
	if s.products != nil {
		for _, it := range items {
			p, ok := s.products.items[it.ProductID]
			if !ok {
				return order.ErrBadReference
			}
			if p.Stock < it.Quantity {
				return order.ErrInsufficientStock
			}
		}
		for _, it := range items {
			s.products.items[it.ProductID].Stock -= it.Quantity
		}
	}
	cp := *o
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.orders[o.ID] = &cp
	s.items[o.ID] = append([]order.Item(nil), items...)
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, []order.Item, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil, order.ErrNotFound
	}
	cp := *o
	return &cp, s.items[id], nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]order.Order, error) {
	var out []order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *stubOrderRepo) GetItems(ctx context.Context, orderID string) ([]order.Item, error) {
	if _, ok := s.orders[orderID]; !ok {
		return nil, order.ErrNotFound
	}
	return s.items[orderID], nil
}

func (s *stubOrderRepo) Cancel(ctx context.Context, id string) error {
	o, ok := s.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	if o.Status != order.StatusPending && o.Status != order.StatusPaid {
		return order.ErrAlreadyClosed
	}
	o.Status = order.StatusCanceled
	if s.products != nil {
		for _, it := range s.items[id] {
			if p, ok := s.products.items[it.ProductID]; ok {
				p.Stock += it.Quantity
			}
		}
	}
	return nil
}

func (s *stubOrderRepo) CreatePayment(ctx context.Context, p *order.Payment) error {
	if _, ok := s.orders[p.OrderID]; !ok {
		return order.ErrNotFound
	}
	if _, ok := s.payments[p.OrderID]; ok {
		return order.ErrPaymentExists
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.payments[p.OrderID] = &cp
	return nil
}

func (s *stubOrderRepo) GetPayment(ctx context.Context, orderID string) (*order.Payment, error) {
	p, ok := s.payments[orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubOrderRepo) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	for _, p := range s.payments {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

func (s *stubOrderRepo) CreateShipping(ctx context.Context, sh *order.Shipping) error {
	if _, ok := s.orders[sh.OrderID]; !ok {
		return order.ErrNotFound
	}
	if _, ok := s.shippings[sh.OrderID]; ok {
		return order.ErrShippingExists
	}
	cp := *sh
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.shippings[sh.OrderID] = &cp
	return nil
}

func (s *stubOrderRepo) GetShipping(ctx context.Context, orderID string) (*order.Shipping, error) {
	sh, ok := s.shippings[orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (s *stubOrderRepo) UpdateShippingStatus(ctx context.Context, id, status string) error {
	for _, sh := range s.shippings {
		if sh.ID == id {
			sh.Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

type stubCouponRepo struct {
	coupons map[string]*coupon.Coupon // by code
}

func newStubCouponRepo() *stubCouponRepo { return &stubCouponRepo{coupons: map[string]*coupon.Coupon{}} }

func (s *stubCouponRepo) Create(ctx context.Context, c *coupon.Coupon) error {
	if _, ok := s.coupons[c.Code]; ok {
		return coupon.ErrDuplicate
	}
	cp := *c
	cp.CreatedAt = time.Now().UTC()
	s.coupons[c.Code] = &cp
	return nil
}

func (s *stubCouponRepo) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	c, ok := s.coupons[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCouponRepo) List(ctx context.Context) ([]coupon.Coupon, error) {
	out := make([]coupon.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCouponRepo) SetActive(ctx context.Context, id string, active bool) error {
	for _, c := range s.coupons {
		if c.ID == id {
			c.Active = active
			return nil
		}
	}
	return coupon.ErrNotFound
}

func (s *stubCouponRepo) Delete(ctx context.Context, id string) (bool, error) {
	for code, c := range s.coupons {
		if c.ID == id {
			delete(s.coupons, code)
			return true, nil
		}
	}
	return false, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func seedUser(repo *stubUserRepo) *user.User {
	u := &user.User{
		ID:       uuid.NewString(),
		Username: fmt.Sprintf("user-%s", uuid.NewString()[:8]),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Role:     user.RoleCustomer,
	}
	_ = repo.Create(context.Background(), u)
	return u
}
