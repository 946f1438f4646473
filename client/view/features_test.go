package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"hwStore/client/api"
	"hwStore/client/cart"
	"hwStore/client/state"
	"hwStore/entities"
)

type storefrontTestContext struct {
	baseURL   string
	store     *cart.Store
	st        *state.Container
	app       *App
	page      string
	submitErr error
}

func (s *storefrontTestContext) reset() {
	if s.st != nil {
		s.st.Close()
	}
	s.store = cart.NewStore()
	s.st = state.New(api.NewClient(s.baseURL+basename), s.store)
	s.app = NewApp(s.st)
	s.page = ""
	s.submitErr = nil
}

func (s *storefrontTestContext) theStoreServesThreeProducts() error {
	prods, err := api.NewClient(s.baseURL + basename).GetProducts(context.Background())
	if err != nil {
		return err
	}
	if len(prods) != 3 {
		return fmt.Errorf("expected 3 products, got %d", len(prods))
	}
	return nil
}

func (s *storefrontTestContext) theCartContains(table *godog.Table) error {
	seed := entities.CartState{}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		price, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return err
		}
		count, err := strconv.Atoi(row.Cells[3].Value)
		if err != nil {
			return err
		}
		seed[id] = entities.CartItem{Name: row.Cells[1].Value, Price: price, Count: count}
	}
	s.store.SetState(seed)
	return nil
}

func (s *storefrontTestContext) iOpen(path string) (err error) {
	s.page, err = s.app.Open(context.Background(), path)
	return
}

func (s *storefrontTestContext) iAddProductToTheCart(id int) error {
	return s.st.AddToCart(id)
}

func (s *storefrontTestContext) iClearTheCart() error {
	s.st.ClearCart()
	return nil
}

func (s *storefrontTestContext) iCheckOut(name, phone, address string) error {
	s.st.SetForm(entities.CheckoutForm{Name: name, Phone: phone, Address: address})
	s.submitErr = s.st.Submit(context.Background())
	return nil
}

func (s *storefrontTestContext) thePageContains(text string) error {
	if !strings.Contains(s.page, text) {
		return fmt.Errorf("page does not contain %q:\n%s", text, s.page)
	}
	return nil
}

func (s *storefrontTestContext) thePageAtContains(path, text string) (err error) {
	s.page, err = s.app.Render(path)
	if err != nil {
		return err
	}
	return s.thePageContains(text)
}

func (s *storefrontTestContext) productHasCountInTheCart(id, count int) error {
	item, ok := s.store.GetState()[id]
	if !ok {
		return fmt.Errorf("product %d is not in the cart", id)
	}
	if item.Count != count {
		return fmt.Errorf("product %d: expected count %d, got %d", id, count, item.Count)
	}
	return nil
}

func (s *storefrontTestContext) theCartIsEmpty() error {
	if n := len(s.store.GetState()); n != 0 {
		return fmt.Errorf("expected empty cart, got %d entries", n)
	}
	return nil
}

func (s *storefrontTestContext) theCheckoutFails() error {
	if s.submitErr == nil {
		return fmt.Errorf("expected checkout to fail")
	}
	return nil
}

func (s *storefrontTestContext) theCheckoutSucceeds() error {
	if s.submitErr != nil {
		return fmt.Errorf("expected checkout to succeed, got %v", s.submitErr)
	}
	if got := s.st.State().Checkout.Status; got != state.CheckoutSuccess {
		return fmt.Errorf("expected checkout status success, got %v", got)
	}
	return nil
}

func initializeScenario(ctx *godog.ScenarioContext, baseURL string) {
	tc := &storefrontTestContext{baseURL: baseURL}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.st.Close()
		tc.st = nil
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the store serves three products$`, tc.theStoreServesThreeProducts)
	ctx.Step(`^the cart contains:$`, tc.theCartContains)

	// When steps
	ctx.Step(`^I open "([^"]*)"$`, tc.iOpen)
	ctx.Step(`^I add product (\d+) to the cart$`, tc.iAddProductToTheCart)
	ctx.Step(`^I clear the cart$`, tc.iClearTheCart)
	ctx.Step(`^I check out as "([^"]*)" with phone "([^"]*)" and address "([^"]*)"$`, tc.iCheckOut)

	// Then steps
	ctx.Step(`^the page contains "([^"]*)"$`, tc.thePageContains)
	ctx.Step(`^the page "([^"]*)" contains "([^"]*)"$`, tc.thePageAtContains)
	ctx.Step(`^product (\d+) has count (\d+) in the cart$`, tc.productHasCountInTheCart)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the checkout fails$`, tc.theCheckoutFails)
	ctx.Step(`^the checkout succeeds$`, tc.theCheckoutSucceeds)
}

func TestFeatures(t *testing.T) {
	srv := mockStore(t)
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			initializeScenario(sc, srv.URL)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features/storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
