// BeamCut: reclaimed steel profile matching and cut planning
//
// Matches harvested beams from demolition inventories against the standard
// profile catalog, plans the cuts that turn them into sellable lengths and
// keeps a reuse-stock register.
//
// Build:
//   go build -o beamcut ./cmd/beamcut
//
// Usage:
//   beamcut match -in elements.csv -pdf report.pdf -xlsx report.xlsx -labels labels.pdf -gcode programs/
//   beamcut compare -in elements.xlsx
//   beamcut catalog -type HEA
//   beamcut stock -totals
//   beamcut demand -in project.json
//   beamcut profiles -import mysaw.json
//   beamcut backup -out beamcut-backup.json
//   beamcut serve -addr :8080

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/piwi3910/BeamCut/internal/api"
	"github.com/piwi3910/BeamCut/internal/engine"
	"github.com/piwi3910/BeamCut/internal/export"
	"github.com/piwi3910/BeamCut/internal/gcode"
	"github.com/piwi3910/BeamCut/internal/importer"
	"github.com/piwi3910/BeamCut/internal/logging"
	"github.com/piwi3910/BeamCut/internal/model"
	"github.com/piwi3910/BeamCut/internal/project"
	"github.com/piwi3910/BeamCut/internal/store"
)

// env bundles what every subcommand needs.
type env struct {
	cfgPath string
	cfg     model.AppConfig
	catalog *model.Catalog
	logger  *zap.Logger
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "match":
		err = runMatch(args)
	case "compare":
		err = runCompare(args)
	case "catalog":
		err = runCatalog(args)
	case "stock":
		err = runStock(args)
	case "demand":
		err = runDemand(args)
	case "profiles":
		err = runProfiles(args)
	case "backup":
		err = runBackup(args)
	case "serve":
		err = runServe(args)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "beamcut %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: beamcut <command> [flags]

Commands:
  match     match harvested elements and write reports, labels and saw programs
  compare   match elements under alternative settings
  catalog   list catalog profiles
  stock     list the reuse-stock inventory
  demand    assign stock to a demand list
  profiles  list or import saw post-processor profiles
  backup    write or restore a backup of config, catalog, profiles and stock
  serve     run the HTTP API

Run "beamcut <command> -h" for the flags of a command.`)
}

// setup loads config, catalog and logger.
func setup(cfgPath string) (*env, error) {
	if cfgPath == "" {
		cfgPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	catalog, err := project.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug("configuration loaded",
		zap.String("config", cfgPath),
		zap.Int("catalog_profiles", catalog.Len()),
		zap.String("inventory", cfg.InventoryDBPath))
	return &env{cfgPath: cfgPath, cfg: cfg, catalog: catalog, logger: logger}, nil
}

func (e *env) settings() model.Settings {
	return e.cfg.Settings()
}

func (e *env) sawProfiles() []model.GCodeProfile {
	custom, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		e.logger.Warn("custom saw profiles not loaded", zap.Error(err))
		return nil
	}
	return custom
}

func loadElements(e *env, path string) ([]model.HarvestedElement, error) {
	if path == "" {
		return nil, errors.New("-in is required")
	}
	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		e.logger.Warn("import", zap.String("file", path), zap.String("warning", w))
	}
	for _, msg := range res.Errors {
		e.logger.Error("import", zap.String("file", path), zap.String("error", msg))
	}
	if len(res.Elements) == 0 {
		return nil, fmt.Errorf("no elements imported from %s (%d errors)", path, len(res.Errors))
	}
	e.logger.Info("elements imported", zap.String("file", path), zap.Int("count", len(res.Elements)))

	project.AddRecentFile(&e.cfg, path, 10)
	if err := project.SaveAppConfig(e.cfgPath, e.cfg); err != nil {
		e.logger.Warn("recent files not saved", zap.Error(err))
	}
	return res.Elements, nil
}

func runMatch(args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	in := fs.String("in", "", "element list (.csv, .xlsx or .dxf)")
	pdfOut := fs.String("pdf", "", "write the cut-plan report to this PDF")
	xlsxOut := fs.String("xlsx", "", "write the match workbook to this .xlsx")
	labelsOut := fs.String("labels", "", "write QR labels to this PDF")
	gcodeDir := fs.String("gcode", "", "write one saw program per matched beam into this directory")
	margin := fs.Int("margin", -1, "safety margin in mm (default from config)")
	price := fs.String("price", "", "unit price per kg (default from config)")
	toStock := fs.Bool("stock", false, "add matched beams and remnants to the inventory")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	segments := fs.Bool("segments", false, "also print a multi-product segment plan per matched element")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	elements, err := loadElements(e, *in)
	if err != nil {
		return err
	}

	override := api.SettingsOverride{}
	if *margin >= 0 {
		override.SafetyMargin = margin
	}
	if *price != "" {
		p, err := decimal.NewFromString(*price)
		if err != nil || p.IsNegative() {
			return fmt.Errorf("invalid -price %q", *price)
		}
		override.UnitPricePerKg = &p
	}
	settings := override.Apply(e.settings())
	if err := settings.Validate(); err != nil {
		return err
	}

	report := engine.New(e.catalog, settings, e.logger).MatchAll(elements)
	sum := report.Summary()
	e.logger.Info("match complete",
		zap.Int("matched", sum.Matched),
		zap.Int("unmatched", sum.Unmatched),
		zap.Int("remnants", len(report.Remnants)))

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(api.MatchResponse{Report: report, Summary: sum}); err != nil {
			return err
		}
	} else {
		printReport(os.Stdout, report, sum)
		if *segments {
			printSegments(os.Stdout, report, settings)
		}
	}

	if *pdfOut != "" {
		if err := export.ExportPDF(*pdfOut, report, settings); err != nil {
			return fmt.Errorf("pdf report: %w", err)
		}
		e.logger.Info("report written", zap.String("file", *pdfOut))
	}
	if *xlsxOut != "" {
		if err := export.ExportExcel(*xlsxOut, report, settings); err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
		e.logger.Info("workbook written", zap.String("file", *xlsxOut))
	}
	if *labelsOut != "" {
		if err := export.ExportLabels(*labelsOut, report); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		e.logger.Info("labels written", zap.String("file", *labelsOut))
	}
	if *gcodeDir != "" {
		gen := gcode.New(settings, e.sawProfiles()...)
		files, err := gen.WriteAll(*gcodeDir, report.Results)
		if err != nil {
			return fmt.Errorf("saw programs: %w", err)
		}
		checkPrograms(e.logger, gen, report.Results)
		e.logger.Info("saw programs written",
			zap.String("dir", *gcodeDir),
			zap.Int("files", len(files)),
			zap.String("profile", gen.Profile().Name))
	}
	if *toStock {
		return addToStock(e, report)
	}
	return nil
}

// checkPrograms runs the motion check over every generated program and logs
// what it finds. The programs are already on disk; issues are warnings.
func checkPrograms(logger *zap.Logger, gen *gcode.Generator, results []model.MatchResult) {
	profile := gen.Profile()
	for _, res := range results {
		moves := gcode.ParseProgram(gen.GenerateElement(res), profile)
		for _, issue := range gcode.CheckProgram(moves, res.Element.Length, res.TargetProfile.Height, profile.ClampOn != "") {
			logger.Warn("saw program issue",
				zap.String("element", res.Element.ID),
				zap.String("issue", issue.String()))
		}
	}
}

func addToStock(e *env, report engine.MatchReport) error {
	inv, err := store.Open(e.cfg.InventoryDBPath, e.catalog)
	if err != nil {
		return err
	}
	defer inv.Close()

	ctx := context.Background()
	buildings := make(map[string]string, len(report.Results))
	added := 0
	for _, res := range report.Results {
		buildings[res.Element.ID] = res.Element.OriginBuilding
		item := model.NewStockItem(res.TargetProfile.Name, res.CutPlan.UsableLength, true, res.EstimatedValue)
		item.OriginBuilding = res.Element.OriginBuilding
		item.SourceElement = res.Element.ID
		if _, err := inv.Add(ctx, item); err != nil {
			return err
		}
		added++
	}
	for _, r := range report.Remnants {
		if _, err := inv.Add(ctx, r.ToStockItem(buildings[r.SourceElement])); err != nil {
			return err
		}
		added++
	}
	e.logger.Info("stock updated", zap.Int("added", added), zap.String("db", e.cfg.InventoryDBPath))
	return nil
}

func printReport(w io.Writer, report engine.MatchReport, sum engine.MatchSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ELEMENT\tPROFILE\tLENGTH\tCUT\tUSABLE\tWASTE\tSCORE\tVALUE")
	for _, r := range report.Results {
		p := r.CutPlan
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d..%d\t%d\t%d+%d\t%d\t%s %s\n",
			r.Element.ID, r.TargetProfile.Name, r.Element.Length,
			p.CutStart, p.CutEnd, p.UsableLength, p.TrimStart, p.TrimEnd,
			r.MatchScore, r.EstimatedValue.StringFixed(2), report.Currency)
	}
	tw.Flush()

	if len(report.Unmatched) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(tw, "UNMATCHED\tPROFILE\tLENGTH\tREASON")
		for _, u := range report.Unmatched {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", u.Element.ID, u.Element.ProfileName, u.Element.Length, u.Reason)
		}
		tw.Flush()
	}

	if len(report.Remnants) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(tw, "REMNANT\tFROM\tPROFILE\tSTART\tLENGTH")
		for _, r := range report.Remnants {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", r.ID, r.SourceElement, r.ProfileName, r.Start, r.Length)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%d of %d matched, %d mm reusable of %d mm, %.1f kg, %s %s, average score %d\n",
		sum.Matched, sum.Elements, sum.ReusableLength, sum.OriginalLength,
		sum.ReusableWeightKg, sum.TotalValue.StringFixed(2), report.Currency, sum.AverageScore)
}

func printSegments(w io.Writer, report engine.MatchReport, settings model.Settings) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w)
	fmt.Fprintln(tw, "ELEMENT\tSEGMENTS\tUTILISATION\tVALUE")
	for _, r := range report.Results {
		plan := engine.PlanSegments(r.Element, r.TargetProfile, settings, nil)
		parts := make([]string, len(plan.Segments))
		for i, seg := range plan.Segments {
			parts[i] = fmt.Sprint(seg.Length)
			if !seg.Standard {
				parts[i] += "*"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%s %s\n", r.Element.ID, strings.Join(parts, " + "),
			plan.Utilisation, plan.TotalValue.StringFixed(2), report.Currency)
	}
	tw.Flush()
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	in := fs.String("in", "", "element list (.csv, .xlsx or .dxf)")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	elements, err := loadElements(e, *in)
	if err != nil {
		return err
	}

	results := engine.CompareScenarios(e.catalog, engine.BuildDefaultScenarios(e.settings()), elements)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tMATCHED\tUNMATCHED\tREUSABLE\tWASTE %\tVALUE\tAVG SCORE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%s\t%d\n",
			r.Scenario.Name, r.Matched, r.Unmatched, r.ReusableLength,
			r.WastePercent, r.TotalValue.StringFixed(2), r.AverageScore)
	}
	return tw.Flush()
}

func runCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	typ := fs.String("type", "", "only this profile type (HEA, HEB, IPE, UNP)")
	minWy := fs.Float64("min-wy", 0, "minimum section modulus Wy in mm3")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	t := model.ProfileType(strings.ToUpper(strings.TrimSpace(*typ)))
	var profiles []model.CatalogProfile
	switch {
	case *minWy > 0:
		profiles = e.catalog.ByMinSectionModulus(*minWy, t)
	case t != "":
		profiles = e.catalog.ByType(t)
	default:
		profiles = e.catalog.Profiles()
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles match")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tH\tB\tAREA\tWY\tKG/M\tLENGTHS")
	for _, p := range profiles {
		lengths := make([]string, len(p.StandardLengths))
		for i, l := range p.StandardLengths {
			lengths[i] = fmt.Sprint(l)
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.1f\t%s\n",
			p.Name, p.Height, p.Width, p.Area, p.Wy, p.WeightPerMeter, strings.Join(lengths, ","))
	}
	return tw.Flush()
}

func runStock(args []string) error {
	fs := flag.NewFlagSet("stock", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	profile := fs.String("profile", "", "only this profile")
	totals := fs.Bool("totals", false, "print totals per profile")
	exportPath := fs.String("export", "", "write the inventory to this JSON file")
	importPath := fs.String("import", "", "add the items of this JSON file to the inventory")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	inv, err := store.Open(e.cfg.InventoryDBPath, e.catalog)
	if err != nil {
		return err
	}
	defer inv.Close()
	ctx := context.Background()

	if *importPath != "" {
		existing, err := inv.All(ctx)
		if err != nil {
			return err
		}
		merged, added, err := project.ImportStock(*importPath, existing)
		if err != nil {
			return err
		}
		for _, item := range merged[len(existing):] {
			if _, err := inv.Add(ctx, item); err != nil {
				return err
			}
		}
		e.logger.Info("stock imported", zap.String("file", *importPath), zap.Int("added", added))
	}

	if *totals {
		rows, err := inv.Totals(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PROFILE\tCOUNT\tLENGTH\tKG\tVALUE")
		for _, t := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%s\n", t.ProfileName, t.Count, t.LengthMM, t.WeightKg, t.Value.StringFixed(2))
		}
		return tw.Flush()
	}

	var items []model.StockItem
	if *profile != "" {
		items, err = inv.FindByProfile(ctx, *profile, false)
	} else {
		items, err = inv.All(ctx)
	}
	if err != nil {
		return err
	}

	if *exportPath != "" {
		if err := project.ExportStock(*exportPath, items); err != nil {
			return err
		}
		e.logger.Info("stock exported", zap.String("file", *exportPath), zap.Int("items", len(items)))
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROFILE\tLENGTH\tSTATUS\tHARVESTED\tFROM\tPRICE")
	for _, s := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\t%s\t%s\n",
			s.ID, s.ProfileName, s.Length, s.Status, s.Harvested, s.OriginBuilding, s.SalePrice.StringFixed(2))
	}
	return tw.Flush()
}

func runDemand(args []string) error {
	fs := flag.NewFlagSet("demand", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	in := fs.String("in", "", "demand list (JSON)")
	reserve := fs.Bool("reserve", false, "mark assigned stock items as reserved")
	fs.Parse(args)

	if *in == "" {
		return errors.New("-in is required")
	}

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	list, err := project.LoadDemandList(*in)
	if err != nil {
		return err
	}

	inv, err := store.Open(e.cfg.InventoryDBPath, e.catalog)
	if err != nil {
		return err
	}
	defer inv.Close()
	ctx := context.Background()

	stock, err := inv.All(ctx)
	if err != nil {
		return err
	}

	results, plans := engine.NewDemandMatcher(e.settings()).OptimizeCutting(list.Items, stock)
	stats := engine.Efficiency(results)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEMAND\tPROFILE\tLENGTH\tSTOCK\tAVAILABLE\tREST\tEFFICIENCY\tSTATUS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%.1f\t%s\n",
			r.DemandID, r.RequestedProfile, r.RequestedLength, r.StockID,
			r.AvailableLength, r.Rest, r.Efficiency, r.Status)
	}
	tw.Flush()
	fmt.Printf("\n%s: %.0f%% matched, average efficiency %.1f%%, %d mm rest, cost %s\n",
		list.Name, stats.MatchPercent, stats.AverageEfficiency, stats.TotalRest, stats.TotalCost.StringFixed(2))

	if *reserve {
		for _, p := range plans {
			if err := inv.SetStatus(ctx, p.StockID, model.StockReserved); err != nil {
				return err
			}
		}
		e.logger.Info("stock reserved", zap.Int("items", len(plans)))
	}
	return nil
}

func runProfiles(args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	importPath := fs.String("import", "", "add the profile in this JSON file")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	path := project.DefaultProfilesPath()
	custom, err := project.LoadCustomProfiles(path)
	if err != nil {
		return err
	}

	if *importPath != "" {
		p, err := project.ImportProfile(*importPath)
		if err != nil {
			return err
		}
		replaced := false
		for i := range custom {
			if custom[i].Name == p.Name {
				custom[i], replaced = p, true
			}
		}
		if !replaced {
			custom = append(custom, p)
		}
		if err := project.SaveCustomProfiles(path, custom); err != nil {
			return err
		}
		e.logger.Info("saw profile imported", zap.String("profile", p.Name), zap.Bool("replaced", replaced))
	}

	for _, name := range model.GetProfileNames(custom...) {
		marker := ""
		if name == e.cfg.DefaultSawProfile {
			marker = " (default)"
		}
		fmt.Println(name + marker)
	}
	return nil
}

func runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	out := fs.String("out", "", "write a backup to this file")
	restore := fs.String("restore", "", "restore the backup in this file")
	fs.Parse(args)

	if (*out == "") == (*restore == "") {
		return errors.New("exactly one of -out and -restore is required")
	}

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	inv, err := store.Open(e.cfg.InventoryDBPath, e.catalog)
	if err != nil {
		return err
	}
	defer inv.Close()
	ctx := context.Background()

	if *out != "" {
		data := project.BackupData{Config: e.cfg}
		if e.cfg.CatalogPath != "" {
			if data.Catalog, err = project.LoadCatalogProfiles(e.cfg.CatalogPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		if data.SawProfiles, err = project.LoadCustomProfiles(project.DefaultProfilesPath()); err != nil {
			return err
		}
		if data.Stock, err = inv.All(ctx); err != nil {
			return err
		}
		if err := project.ExportAllData(*out, data); err != nil {
			return err
		}
		e.logger.Info("backup written", zap.String("file", *out), zap.Int("stock", len(data.Stock)))
		return nil
	}

	data, err := project.ImportAllData(*restore)
	if err != nil {
		return err
	}
	cfg := data.Config
	cfg.InventoryDBPath = e.cfg.InventoryDBPath
	if len(data.Catalog) > 0 {
		if cfg.CatalogPath == "" {
			cfg.CatalogPath = filepath.Join(project.DefaultConfigDir(), "catalog.yaml")
		}
		if err := project.SaveCatalog(cfg.CatalogPath, data.Catalog); err != nil {
			return err
		}
	}
	if len(data.SawProfiles) > 0 {
		if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), data.SawProfiles); err != nil {
			return err
		}
	}
	if err := project.SaveAppConfig(e.cfgPath, cfg); err != nil {
		return err
	}

	existing, err := inv.All(ctx)
	if err != nil {
		return err
	}
	merged, added := project.MergeStock(existing, data.Stock)
	for _, item := range merged[len(existing):] {
		if _, err := inv.Add(ctx, item); err != nil {
			return err
		}
	}
	e.logger.Info("backup restored",
		zap.String("file", *restore),
		zap.String("created_at", data.CreatedAt),
		zap.Int("stock_added", added))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default ~/.beamcut/config.json)")
	addr := fs.String("addr", "", "listen address (default from config)")
	fs.Parse(args)

	e, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	defer e.logger.Sync()
	if *addr == "" {
		*addr = e.cfg.ListenAddr
	}

	inv, err := store.Open(e.cfg.InventoryDBPath, e.catalog)
	if err != nil {
		return err
	}
	defer inv.Close()

	reg := prometheus.NewRegistry()
	handler := api.NewRouter(api.Config{
		Catalog:   e.catalog,
		Settings:  e.settings(),
		Inventory: inv,
		Logger:    e.logger,
		Registry:  reg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("listening", zap.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
