package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/jobportal/internal/config"
	"github.com/jonathan/jobportal/internal/geo"
	"github.com/jonathan/jobportal/internal/locations"
	"github.com/jonathan/jobportal/internal/nearby"
	"github.com/jonathan/jobportal/internal/observability"
	"github.com/jonathan/jobportal/internal/portalclient"
	"github.com/spf13/cobra"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Show jobs or talent around a location",
	Long: `Fetches listings from a running job portal API and places them around a
reference location, the same way the map views do. Without --lat/--lng the
configured default reference is used. If the API cannot be reached, sample
locations are shown instead.`,
	RunE: runNearby,
}

// nearbyOptions are the inputs of one nearby run.
type nearbyOptions struct {
	API       string
	Token     string
	Lat       string
	Lng       string
	Talent    bool
	Haversine bool
	All       bool
	JSON      bool
}

var nearbyOpts nearbyOptions

func init() {
	nearbyCmd.Flags().StringVar(&nearbyOpts.API, "api", "", "Base URL of the job portal API, e.g. http://localhost:8080 (required)")
	nearbyCmd.Flags().StringVar(&nearbyOpts.Token, "token", "", "Bearer token sent with API requests")
	nearbyCmd.Flags().StringVar(&nearbyOpts.Lat, "lat", "", "Viewer latitude")
	nearbyCmd.Flags().StringVar(&nearbyOpts.Lng, "lng", "", "Viewer longitude")
	nearbyCmd.Flags().BoolVar(&nearbyOpts.Talent, "talent", false, "Show job seekers instead of jobs")
	nearbyCmd.Flags().BoolVar(&nearbyOpts.Haversine, "haversine", false, "Use great-circle distances instead of the flat approximation")
	nearbyCmd.Flags().BoolVar(&nearbyOpts.All, "all", false, "List every result instead of the first few")
	nearbyCmd.Flags().BoolVar(&nearbyOpts.JSON, "json", false, "Print the raw result as JSON")

	if err := nearbyCmd.MarkFlagRequired("api"); err != nil {
		panic(fmt.Sprintf("failed to mark api flag as required: %v", err))
	}

	rootCmd.AddCommand(nearbyCmd)
}

func runNearby(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return resolveNearby(cmd.Context(), cmd.OutOrStdout(), cfg, nearbyOpts)
}

// resolveNearby runs one resolution against the API and prints it.
func resolveNearby(ctx context.Context, out io.Writer, cfg config.Config, opts nearbyOptions) error {
	if (opts.Lat == "") != (opts.Lng == "") {
		return fmt.Errorf("--lat and --lng must be given together")
	}
	var lat, lng any
	if opts.Lat != "" {
		pos := geo.Parse(opts.Lat, opts.Lng)
		if pos == nil || !pos.Valid() {
			return fmt.Errorf("invalid coordinate %s, %s", opts.Lat, opts.Lng)
		}
		lat, lng = pos.Latitude, pos.Longitude
	}

	clientOpts := portalclient.DefaultOptions()
	clientOpts.Token = opts.Token
	client, err := portalclient.New(opts.API, clientOpts)
	if err != nil {
		return err
	}

	resolverOpts := []nearby.Option{nearby.WithFallbackSize(cfg.FallbackSize)}
	if ref, ok := cfg.DefaultReference(); ok {
		resolverOpts = append(resolverOpts, nearby.WithDefaultReference(ref))
	}
	estimatorName := cfg.DistanceEstimator
	if opts.Haversine {
		estimatorName = geo.EstimatorHaversine
	}
	estimator, err := geo.ParseEstimator(estimatorName)
	if err != nil {
		return err
	}
	resolverOpts = append(resolverOpts, nearby.WithEstimator(estimator))

	resolver := nearby.NewResolver(client, client, resolverOpts...)
	session := nearby.SessionFromValues(nil, nil, lat, lng)

	printer := observability.NewPrinter(out)
	if opts.All {
		printer.WithMaxItems(0)
	}
	catalog := locations.Default()

	if opts.Talent {
		res := resolver.ResolveTalent(ctx, session)
		if opts.JSON {
			return writeJSON(out, res)
		}
		printer.PrintTalentMap(res, catalog)
		return nil
	}

	res := resolver.ResolveJobs(ctx, session)
	if opts.JSON {
		return writeJSON(out, res)
	}
	printer.PrintJobsMap(res, catalog)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
