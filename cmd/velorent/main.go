package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"velorent/internal/client"
	"velorent/internal/config"
	"velorent/internal/controller"
	"velorent/internal/entities"
	"velorent/internal/stubapi"
	"velorent/internal/term"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := &cobra.Command{
		Use:           "velorent",
		Short:         "Terminal front end for the velorent vehicle rental service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(vehiclesCmd(cfg, logger))
	root.AddCommand(rentCmd(cfg, logger))
	root.AddCommand(stubCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func vehiclesCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	var (
		page        int
		filter      string
		search      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Browse the vehicle catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(cfg.APIBaseURL, logger)
			if err != nil {
				return err
			}
			view := term.NewView(os.Stdin, os.Stdout)
			catalog := controller.NewCatalog(api, view, logger, cfg.SearchDebounce)
			catalog.SetQuery(entities.CatalogQuery{Page: page, Filter: filter, Search: search})
			catalog.Load(cmd.Context())
			if !interactive {
				return nil
			}
			return browse(cmd.Context(), catalog, view)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "catalog page to fetch")
	cmd.Flags().StringVar(&filter, "filter", "all", "vehicle type filter (all, car, bike, electric)")
	cmd.Flags().StringVar(&search, "search", "", "search vehicles by name")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse interactively")
	return cmd
}

// browse runs the interactive catalog loop. Filter and search changes
// restart from page one; paging keeps the current query.
func browse(ctx context.Context, catalog *controller.Catalog, view *term.View) error {
	defer catalog.Stop()
	fmt.Println(`Commands: n(ext) p(rev) f <type> s <text> q(uit)`)
	for {
		line, err := view.ReadLine("> ")
		if err != nil {
			return nil
		}
		switch {
		case line == "q":
			return nil
		case line == "n":
			catalog.NextPage(ctx)
		case line == "p":
			catalog.PreviousPage(ctx)
		case strings.HasPrefix(line, "f "):
			catalog.SelectFilter(ctx, strings.TrimSpace(strings.TrimPrefix(line, "f ")))
		case strings.HasPrefix(line, "s "):
			catalog.SearchInput(ctx, strings.TrimSpace(strings.TrimPrefix(line, "s ")))
		case line == "":
		default:
			fmt.Println("Unknown command.")
		}
	}
}

func rentCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "rent <vehicle-id>",
		Short: "Book a vehicle for a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicleID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("vehicle id must be a number: %q", args[0])
			}
			api, err := client.New(cfg.APIBaseURL, logger)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			vehicle, err := findVehicle(ctx, api, vehicleID)
			if err != nil {
				return err
			}

			view := term.NewView(os.Stdin, os.Stdout)
			booking := controller.NewBooking(api, view, view, logger)
			booking.Open(ctx, *vehicle)
			defer booking.Close()

			pickup := view.Picker("pickupDate")
			returns := view.Picker("returnDate")
			if pickup == nil || returns == nil {
				return fmt.Errorf("booking dialog did not open")
			}

			start, err := pickup.Ask()
			if err != nil {
				return err
			}
			booking.SetPickupDate(start)

			end, err := returns.Ask()
			if err != nil {
				return err
			}
			booking.SetReturnDate(end)

			if location == "" {
				location, err = view.ReadLine("pickup location: ")
				if err != nil {
					return err
				}
			}
			booking.Submit(ctx, location)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "pickup location")
	return cmd
}

// findVehicle walks the catalog pages until it finds the vehicle, the
// way a card click hands the controller the vehicle it was built from.
func findVehicle(ctx context.Context, api *client.Client, id int) (*entities.Vehicle, error) {
	q := entities.CatalogQuery{Page: 1, Filter: "all"}
	for {
		page, err := api.Vehicles(ctx, q)
		if err != nil {
			return nil, err
		}
		for i := range page.Vehicles {
			if page.Vehicles[i].ID == id {
				return &page.Vehicles[i], nil
			}
		}
		if !page.HasNext {
			return nil, fmt.Errorf("vehicle %d not found", id)
		}
		q.Page = page.CurrentPage + 1
	}
}

func stubCmd(cfg config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stub",
		Short: "Serve an in-memory stub of the rental API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := stubapi.NewStore(stubapi.SeedFleet())
			server := stubapi.NewServer(store, logger)
			sweeper := stubapi.NewSweeper(store, logger)
			if err := sweeper.Start(); err != nil {
				return err
			}
			defer sweeper.Stop()

			addr := ":" + cfg.Port
			logger.Info("stub API listening", zap.String("addr", addr))
			return http.ListenAndServe(addr, server.Handler())
		},
	}
}
