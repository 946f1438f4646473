package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"hwStore/client/api"
	"hwStore/client/cart"
	"hwStore/client/state"
	"hwStore/client/view"
	"hwStore/config"
	"hwStore/entities"
	"hwStore/repository"
	"hwStore/services"
)

// storefront is the client side composition root.
type storefront struct {
	app     *view.App
	session string
	carts   *services.CartService
	close   func()
}

func openStorefront(ctx context.Context, cfg config.Config) (*storefront, error) {
	sf := &storefront{close: func() {}}
	store := cart.NewStore()

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sR, err := repository.NewSessionRepository(rdb, cfg.CartTTL)
		if err != nil {
			rdb.Close()
			return nil, errors.Wrap(err, "redis is not working")
		}
		cs := services.NewCartService(sR, func(id string) (repository.CartRepository, error) {
			return repository.NewCartRepository(rdb, id, cfg.CartTTL)
		})
		var stop func()
		store, sf.session, stop, err = cs.OpenCart(ctx, cfg.CartSession)
		if err != nil {
			rdb.Close()
			return nil, err
		}
		if sf.session != cfg.CartSession {
			fmt.Fprintf(os.Stderr, "new cart session, keep it with: export CART_SESSION=%s\n", sf.session)
		}
		sf.carts = &cs
		sf.close = func() {
			stop()
			rdb.Close()
		}
	} else {
		log.Warn("REDIS_ADDR is not set, the cart lives only for this command")
	}

	st := state.New(api.NewClient(cfg.APIURL), store)
	inner := sf.close
	sf.close = func() {
		st.Close()
		inner()
	}
	sf.app = view.NewApp(st)
	return sf, nil
}

func withStorefront(fn func(ctx context.Context, c *cli.Context, sf *storefront) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		sf, err := openStorefront(c.Context, configFrom(c))
		if err != nil {
			return err
		}
		defer sf.close()
		return fn(c.Context, c, sf)
	}
}

func show(ctx context.Context, c *cli.Context, sf *storefront, path string) error {
	page, err := sf.app.Open(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, page)
	return nil
}

func productId(c *cli.Context) (int, error) {
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id < 0 {
		return 0, errors.Errorf("product id expected, got %q", c.Args().First())
	}
	return id, nil
}

var catalogCommand = &cli.Command{
	Name:  "catalog",
	Usage: "list the products",
	Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
		return show(ctx, c, sf, "/catalog")
	}),
}

var productCommand = &cli.Command{
	Name:      "product",
	Usage:     "show one product",
	ArgsUsage: "<id>",
	Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
		id, err := productId(c)
		if err != nil {
			return err
		}
		st := sf.app.State()
		// each fetch records its own outcome; one failing must not cancel the other
		var g errgroup.Group
		g.Go(func() error { return st.LoadProducts(ctx) })
		g.Go(func() error { return st.LoadProduct(ctx, id) })
		if err = g.Wait(); err != nil {
			log.WithError(err).Debug("product: fetch failed")
		}
		page, err := sf.app.Render("/catalog/" + strconv.Itoa(id))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, page)
		return nil
	}),
}

var pageCommand = &cli.Command{
	Name:      "page",
	Usage:     "render any storefront route, e.g. /delivery",
	ArgsUsage: "<path>",
	Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
		path := c.Args().First()
		if path == "" {
			path = "/"
		}
		return show(ctx, c, sf, path)
	}),
}

var cartCommand = &cli.Command{
	Name:  "cart",
	Usage: "show or change the shopping cart",
	Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
		return show(ctx, c, sf, "/cart")
	}),
	Subcommands: []*cli.Command{
		{
			Name:      "add",
			Usage:     "add one unit of a product",
			ArgsUsage: "<id>",
			Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
				id, err := productId(c)
				if err != nil {
					return err
				}
				st := sf.app.State()
				if err = st.LoadProduct(ctx, id); err != nil {
					return err
				}
				if err = st.AddToCart(id); err != nil {
					return err
				}
				return show(ctx, c, sf, "/cart")
			}),
		},
		{
			Name:      "remove",
			Usage:     "remove one unit of a product",
			ArgsUsage: "<id>",
			Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
				id, err := productId(c)
				if err != nil {
					return err
				}
				sf.app.State().RemoveFromCart(id)
				return show(ctx, c, sf, "/cart")
			}),
		},
		{
			Name:      "delete",
			Usage:     "drop a product row whatever its count",
			ArgsUsage: "<id>",
			Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
				id, err := productId(c)
				if err != nil {
					return err
				}
				sf.app.State().Cart().DeleteItem(id)
				return show(ctx, c, sf, "/cart")
			}),
		},
		{
			Name:  "clear",
			Usage: "empty the cart",
			Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
				sf.app.State().ClearCart()
				return show(ctx, c, sf, "/cart")
			}),
		},
		{
			Name:  "drop",
			Usage: "forget the saved cart session",
			Action: withStorefront(func(ctx context.Context, _ *cli.Context, sf *storefront) error {
				if sf.carts == nil {
					return errors.New("no saved cart: REDIS_ADDR is not set")
				}
				return sf.carts.DropCart(ctx, sf.session)
			}),
		},
	},
}

var checkoutCommand = &cli.Command{
	Name:  "checkout",
	Usage: "place an order for the cart",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "phone", Required: true},
		&cli.StringFlag{Name: "address", Required: true},
	},
	Action: withStorefront(func(ctx context.Context, c *cli.Context, sf *storefront) error {
		st := sf.app.State()
		st.SetForm(entities.CheckoutForm{
			Name:    c.String("name"),
			Phone:   c.String("phone"),
			Address: c.String("address"),
		})
		submitErr := st.Submit(ctx)
		page, err := sf.app.Render("/cart")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, page)
		if submitErr != nil {
			return cli.Exit("checkout failed", 1)
		}
		return nil
	}),
}

var importCommand = &cli.Command{
	Name:      "import",
	Usage:     "add products from a JSON file to the catalog",
	ArgsUsage: "<products.json>",
	Action: func(c *cli.Context) error {
		cfg := configFrom(c)
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return errors.Wrap(err, "read products")
		}
		var prods []entities.Product
		if err = json.Unmarshal(data, &prods); err != nil {
			return errors.Wrap(err, "parse products")
		}

		db, err := repository.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		pR, err := repository.NewProductRepository(db)
		if err != nil {
			return err
		}
		ps := services.NewProductService(pR)
		n, err := ps.ImportProducts(prods)
		fmt.Fprintf(c.App.Writer, "imported %d of %d products\n", n, len(prods))
		return err
	},
}
