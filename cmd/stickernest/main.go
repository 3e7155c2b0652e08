// Command stickernest nests sticker outlines onto cutting sheets.
//
// It reads a nesting request as JSON from stdin (or -in), runs the chosen
// packing strategy, and writes the result as JSON to stdout (or -out).
// Sticker lists can also come from CSV, Excel, or DXF files, from a saved
// project, or from a stored template; export flags render the result to PDF,
// DXF, Excel, or QR labels. Defaults, nesting profiles, templates, and the
// media inventory live as JSON files under the config directory.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/StickerNest/internal/engine"
	"github.com/piwi3910/StickerNest/internal/export"
	"github.com/piwi3910/StickerNest/internal/importer"
	"github.com/piwi3910/StickerNest/internal/model"
	"github.com/piwi3910/StickerNest/internal/project"
)

func main() {
	var (
		inPath       = flag.String("in", "", "read the request JSON from a file instead of stdin")
		outPath      = flag.String("out", "", "write the response JSON to a file instead of stdout")
		csvPath      = flag.String("csv", "", "import stickers from a CSV file instead of a JSON request")
		xlsxPath     = flag.String("xlsx", "", "import stickers from an Excel file instead of a JSON request")
		dxfInPath    = flag.String("dxf-in", "", "import sticker outlines from a DXF file instead of a JSON request")
		projectPath  = flag.String("project", "", "nest a saved project file")
		templateName = flag.String("template", "", "start from a stored project template")

		configDir   = flag.String("config-dir", project.DefaultConfigDir(), "directory holding config, profiles, templates, and inventory")
		profileName = flag.String("profile", "", "apply a named nesting profile (built-in or custom)")
		stockName   = flag.String("stock", "", "take sheet dimensions from a named inventory stock and consume the sheets used")

		sheetWidth  = flag.Float64("sheet-width", 0, "sheet width (overrides request and project settings)")
		sheetHeight = flag.Float64("sheet-height", 0, "sheet height (overrides request and project settings)")
		sheetName   = flag.String("sheet", "", "named sheet size, e.g. \"US Letter\"")
		spacing     = flag.Float64("spacing", -1, "minimum gap between stickers (overrides request)")
		preset      = flag.String("preset", "", "quality preset: fast, balanced, fine, maximum")
		rotStep     = flag.Float64("rotation-step", 0, "custom rotation step in degrees (overrides preset rotations)")
		strategy    = flag.String("strategy", "", "packing strategy: grid, nfp, anneal, genetic")

		production = flag.Bool("production", false, "distribute sticker quantities over multiple sheets")
		sheetCount = flag.Int("sheets", 0, "sheet count for production mode")
		packAll    = flag.Bool("pack-all", false, "production mode: greedily pack everything instead of spreading evenly")
		trackPerf  = flag.Bool("perf", false, "include performance metrics in the response")

		timeout = flag.Duration("timeout", 0, "abort packing after this duration, keeping partial results")
		compare = flag.Bool("compare", false, "run alternative strategies and presets on the request and print a comparison table instead of the response")

		pdfPath    = flag.String("pdf", "", "export the layout as a PDF proof")
		dxfPath    = flag.String("dxf", "", "export cut paths as DXF (one file per sheet)")
		reportPath = flag.String("report", "", "export an Excel production report")
		labelsPath = flag.String("labels", "", "export a QR label sheet PDF")

		saveProject  = flag.String("save-project", "", "save parts, settings, and result as a project file")
		saveProfile  = flag.String("save-profile", "", "save the effective settings as a custom nesting profile")
		saveTemplate = flag.String("save-template", "", "save the request's stickers and settings as a template")
		backupPath   = flag.String("backup", "", "write all application state to a backup file and exit")
		restorePath  = flag.String("restore", "", "restore application state from a backup file and exit")
		estimate     = flag.Bool("estimate", false, "print a runtime estimate to stderr before packing")
	)
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("stickernest: ")

	st := stores{dir: *configDir}

	// Backup and restore are standalone maintenance modes.
	if *restorePath != "" {
		if err := runRestore(st, *restorePath); err != nil {
			fail(fmt.Errorf("restore: %w", err))
		}
		return
	}
	if *backupPath != "" {
		if err := runBackup(st, *backupPath); err != nil {
			fail(fmt.Errorf("backup: %w", err))
		}
		return
	}

	req, err := buildRequest(requestSources{
		inPath:       *inPath,
		csvPath:      *csvPath,
		xlsxPath:     *xlsxPath,
		dxfInPath:    *dxfInPath,
		projectPath:  *projectPath,
		templateName: *templateName,
	}, st)
	if err != nil {
		fail(err)
	}
	if *projectPath != "" {
		recordRecentProject(st, *projectPath)
	}

	if *profileName != "" {
		prof, err := findProfile(st.profiles(), *profileName)
		if err != nil {
			fail(err)
		}
		applySettings(&req, prof.Settings)
	}

	var stockID string
	if *stockName != "" {
		stockID, err = applyStock(st, *stockName, &req)
		if err != nil {
			fail(err)
		}
	}

	applyOverrides(&req, overrides{
		sheetWidth:  *sheetWidth,
		sheetHeight: *sheetHeight,
		sheetName:   *sheetName,
		spacing:     *spacing,
		preset:      *preset,
		rotStep:     *rotStep,
		strategy:    *strategy,
		production:  *production,
		sheetCount:  *sheetCount,
		packAll:     *packAll,
		trackPerf:   *trackPerf,
	})

	if *estimate {
		printEstimate(req)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if *compare {
		if err := runComparison(ctx, req, *outPath); err != nil {
			fail(fmt.Errorf("compare: %w", err))
		}
		return
	}

	resp := engine.Nest(ctx, req)

	if err := writeResponse(*outPath, resp); err != nil {
		fail(err)
	}
	if !resp.Success {
		os.Exit(1)
	}

	parts, _ := req.Parts()
	result := asMultiSheet(resp)

	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, result, parts, req.Sheet()); err != nil {
			fail(fmt.Errorf("pdf export: %w", err))
		}
	}
	if *dxfPath != "" {
		if err := exportDXFSheets(*dxfPath, result, parts, req.Sheet()); err != nil {
			fail(fmt.Errorf("dxf export: %w", err))
		}
	}
	if *reportPath != "" {
		if err := export.ExportReport(*reportPath, result, parts, req.Sheet()); err != nil {
			fail(fmt.Errorf("report export: %w", err))
		}
	}
	if *labelsPath != "" {
		if err := export.ExportLabels(*labelsPath, result, parts); err != nil {
			fail(fmt.Errorf("label export: %w", err))
		}
	}

	if *saveProfile != "" {
		prof := model.NewNestProfile(*saveProfile, settingsFromRequest(req))
		if err := addCustomProfile(st.profiles(), prof); err != nil {
			fail(fmt.Errorf("save profile: %w", err))
		}
	}
	if *saveTemplate != "" {
		if err := addTemplate(st, *saveTemplate, parts, settingsFromRequest(req)); err != nil {
			fail(fmt.Errorf("save template: %w", err))
		}
	}
	if stockID != "" {
		if err := consumeStock(st, stockID, sheetsUsed(result)); err != nil {
			log.Println("warning:", err)
		}
	}
	if *saveProject != "" {
		if err := saveProjectFile(*saveProject, req, parts, result); err != nil {
			fail(fmt.Errorf("save project: %w", err))
		}
		recordRecentProject(st, *saveProject)
	}
}

// stores resolves the per-concern state files inside one config directory.
// File names match the project package's defaults.
type stores struct {
	dir string
}

func (s stores) config() string    { return filepath.Join(s.dir, "config.json") }
func (s stores) profiles() string  { return filepath.Join(s.dir, "profiles.json") }
func (s stores) templates() string { return filepath.Join(s.dir, "templates.json") }
func (s stores) inventory() string { return filepath.Join(s.dir, "inventory.json") }

type requestSources struct {
	inPath       string
	csvPath      string
	xlsxPath     string
	dxfInPath    string
	projectPath  string
	templateName string
}

// buildRequest assembles the nesting request from whichever input source was
// chosen. Imported part lists start from the user's saved defaults; projects
// and templates carry their own settings.
func buildRequest(src requestSources, st stores) (model.NestRequest, error) {
	switch {
	case src.projectPath != "":
		p, err := project.LoadProject(src.projectPath)
		if err != nil {
			return model.NestRequest{}, err
		}
		return requestFromParts(p.Parts, p.Settings), nil

	case src.templateName != "":
		return requestFromTemplate(st, src.templateName)

	case src.csvPath != "":
		return requestFromImport(importer.ImportCSV(src.csvPath), st)

	case src.xlsxPath != "":
		return requestFromImport(importer.ImportExcel(src.xlsxPath), st)

	case src.dxfInPath != "":
		return requestFromImport(importer.ImportDXF(src.dxfInPath), st)

	default:
		return readRequest(src.inPath)
	}
}

func readRequest(path string) (model.NestRequest, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return model.NestRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req model.NestRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return model.NestRequest{}, fmt.Errorf("failed to decode request: %w", err)
	}
	return req, nil
}

func requestFromImport(res importer.ImportResult, st stores) (model.NestRequest, error) {
	for _, w := range res.Warnings {
		log.Println("warning:", w)
	}
	for _, e := range res.Errors {
		log.Println("error:", e)
	}
	if len(res.Parts) == 0 {
		return model.NestRequest{}, fmt.Errorf("no usable stickers in import")
	}
	return requestFromParts(res.Parts, loadDefaultSettings(st)), nil
}

func requestFromTemplate(st stores, name string) (model.NestRequest, error) {
	store, err := project.LoadTemplates(st.templates())
	if err != nil {
		return model.NestRequest{}, err
	}
	tmpl := store.FindByName(name)
	if tmpl == nil {
		return model.NestRequest{}, fmt.Errorf("unknown template %q (available: %s)",
			name, strings.Join(store.Names(), ", "))
	}
	p := tmpl.ToProject(name)
	return requestFromParts(p.Parts, p.Settings), nil
}

// loadDefaultSettings seeds nesting settings from the saved application
// config. A missing config file yields the built-in defaults.
func loadDefaultSettings(st stores) model.NestSettings {
	s := model.DefaultSettings()
	cfg, err := project.LoadAppConfig(st.config())
	if err != nil {
		log.Println("warning: using built-in defaults:", err)
		return s
	}
	cfg.ApplyToSettings(&s)
	return s
}

// findProfile resolves a profile by name or id across built-in and custom
// profiles.
func findProfile(path, name string) (model.NestProfile, error) {
	profiles, err := project.AllProfiles(path)
	if err != nil {
		return model.NestProfile{}, err
	}
	names := make([]string, len(profiles))
	for i, p := range profiles {
		if strings.EqualFold(p.Name, name) || p.ID == name {
			return p, nil
		}
		names[i] = p.Name
	}
	return model.NestProfile{}, fmt.Errorf("unknown profile %q (available: %s)",
		name, strings.Join(names, ", "))
}

func addCustomProfile(path string, prof model.NestProfile) error {
	custom, err := project.LoadCustomProfiles(path)
	if err != nil {
		return err
	}
	return project.SaveCustomProfiles(path, append(custom, prof))
}

func addTemplate(st stores, name string, parts []model.Part, s model.NestSettings) error {
	store, err := project.LoadTemplates(st.templates())
	if err != nil {
		return err
	}
	store.Add(model.NewProjectTemplate(name, "", parts, s))
	return project.SaveTemplates(st.templates(), store)
}

// applyStock sets the request's sheet dimensions from a named inventory
// stock entry and returns the entry's id for consumption after the run.
func applyStock(st stores, name string, req *model.NestRequest) (string, error) {
	inv, err := project.LoadInventory(st.inventory())
	if err != nil {
		return "", err
	}
	for _, s := range inv.Stocks {
		if s.ID == name || strings.EqualFold(s.Name, name) {
			req.SheetWidth = s.Width
			req.SheetHeight = s.Height
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("unknown stock %q (available: %s)",
		name, strings.Join(inv.StockNames(), ", "))
}

// consumeStock decrements the inventory by the sheets a run actually used.
func consumeStock(st stores, id string, sheets int) error {
	if sheets == 0 {
		return nil
	}
	inv, err := project.LoadInventory(st.inventory())
	if err != nil {
		return err
	}
	if !inv.Consume(id, sheets) {
		return fmt.Errorf("stock %s has fewer than %d sheets left", id, sheets)
	}
	return project.SaveInventory(st.inventory(), inv)
}

// sheetsUsed counts the sheets that received at least one placement.
func sheetsUsed(result model.MultiSheetResult) int {
	used := 0
	for _, s := range result.Sheets {
		if len(s.Placements) > 0 {
			used++
		}
	}
	return used
}

// recordRecentProject updates the recent-project list in the app config.
// Failures only warn; they never break a nesting run.
func recordRecentProject(st stores, path string) {
	cfg, err := project.LoadAppConfig(st.config())
	if err != nil {
		log.Println("warning: recent projects not updated:", err)
		return
	}
	project.AddRecentProject(&cfg, path)
	if err := project.SaveAppConfig(st.config(), cfg); err != nil {
		log.Println("warning: recent projects not saved:", err)
	}
}

func runBackup(st stores, path string) error {
	cfg, err := project.LoadAppConfig(st.config())
	if err != nil {
		return err
	}
	profiles, err := project.LoadCustomProfiles(st.profiles())
	if err != nil {
		return err
	}
	templates, err := project.LoadTemplates(st.templates())
	if err != nil {
		return err
	}
	inv, err := project.LoadInventory(st.inventory())
	if err != nil {
		return err
	}
	return project.ExportAllData(path, cfg, profiles, templates, inv)
}

func runRestore(st stores, path string) error {
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	if backup.Profiles == nil {
		backup.Profiles = []model.NestProfile{}
	}
	if err := project.SaveAppConfig(st.config(), backup.Config); err != nil {
		return err
	}
	if err := project.SaveCustomProfiles(st.profiles(), backup.Profiles); err != nil {
		return err
	}
	if err := project.SaveTemplates(st.templates(), backup.Templates); err != nil {
		return err
	}
	return project.SaveInventory(st.inventory(), backup.Inventory)
}

// applySettings copies persisted settings onto a request, replacing any
// search configuration the request carried.
func applySettings(req *model.NestRequest, s model.NestSettings) {
	req.SheetWidth = s.Sheet.Width
	req.SheetHeight = s.Sheet.Height
	req.Spacing = s.Spacing
	req.Preset = s.Preset
	req.Strategy = s.Strategy
	req.ProductionMode = s.ProductionMode
	req.SheetCount = s.SheetCount
	req.PackAllItems = s.PackAllItems
	req.Rotations = nil
	req.CellsPerUnit = 0
	req.StepSize = 0
	if s.RotationStep > 0 {
		if p, err := engine.CustomPreset(s.RotationStep); err == nil {
			req.Rotations = p.Rotations
			req.CellsPerUnit = p.CellsPerUnit
			req.StepSize = p.StepSize
		}
	}
}

func settingsFromRequest(req model.NestRequest) model.NestSettings {
	return model.NestSettings{
		Sheet:          req.Sheet(),
		Spacing:        req.Spacing,
		Preset:         req.Preset,
		Strategy:       req.Strategy,
		ProductionMode: req.ProductionMode,
		SheetCount:     req.SheetCount,
		PackAllItems:   req.PackAllItems,
	}
}

func requestFromParts(parts []model.Part, s model.NestSettings) model.NestRequest {
	var req model.NestRequest
	applySettings(&req, s)
	for _, p := range parts {
		req.Stickers = append(req.Stickers, model.Sticker{
			ID:       p.ID,
			Points:   []model.Point2D(p.Boundary),
			Width:    p.Width,
			Height:   p.Height,
			Area:     p.Area,
			Quantity: p.Quantity,
		})
	}
	return req
}

type overrides struct {
	sheetWidth  float64
	sheetHeight float64
	sheetName   string
	spacing     float64
	preset      string
	rotStep     float64
	strategy    string
	production  bool
	sheetCount  int
	packAll     bool
	trackPerf   bool
}

func applyOverrides(req *model.NestRequest, o overrides) {
	if o.sheetName != "" {
		if sheet, ok := model.SheetSizeByName(o.sheetName); ok {
			req.SheetWidth = sheet.Width
			req.SheetHeight = sheet.Height
		} else {
			log.Printf("warning: unknown sheet size %q, keeping %gx%g",
				o.sheetName, req.SheetWidth, req.SheetHeight)
		}
	}
	if o.sheetWidth > 0 {
		req.SheetWidth = o.sheetWidth
	}
	if o.sheetHeight > 0 {
		req.SheetHeight = o.sheetHeight
	}
	if o.spacing >= 0 {
		req.Spacing = o.spacing
	}
	if o.preset != "" {
		req.Preset = o.preset
		req.Rotations = nil
		req.CellsPerUnit = 0
		req.StepSize = 0
	}
	if o.rotStep > 0 {
		if p, err := engine.CustomPreset(o.rotStep); err == nil {
			req.Rotations = p.Rotations
			req.CellsPerUnit = p.CellsPerUnit
			req.StepSize = p.StepSize
		}
	}
	if o.strategy != "" {
		req.Strategy = model.StrategyName(o.strategy)
	}
	if o.production {
		req.ProductionMode = true
	}
	if o.sheetCount > 0 {
		req.SheetCount = o.sheetCount
	}
	if o.packAll {
		req.PackAllItems = true
	}
	if o.trackPerf {
		req.TrackPerformance = true
	}
}

func printEstimate(req model.NestRequest) {
	cfg, err := engine.ConfigFromRequest(req)
	if err != nil {
		return
	}
	parts, _ := req.Parts()
	count := 0
	for _, p := range parts {
		count += p.Quantity
	}
	d := cfg.Preset.EstimateRuntime(count, 150*time.Millisecond)
	log.Printf("estimated runtime: %s (%d stickers, preset %s)",
		engine.FormatDuration(d), count, cfg.Preset.Name)
}

// runComparison packs the request under the default comparison scenarios and
// writes the tabulated results instead of a JSON response.
func runComparison(ctx context.Context, req model.NestRequest, outPath string) error {
	if err := req.Validate(); err != nil {
		return err
	}
	cfg, err := engine.ConfigFromRequest(req)
	if err != nil {
		return err
	}
	parts, _ := req.Parts()
	if len(parts) == 0 {
		return fmt.Errorf("no valid stickers to compare")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = model.StrategyGridScan
	}
	results, err := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(cfg, strategy), parts)
	if err != nil {
		return err
	}

	table := comparisonTable(results)
	if outPath == "" {
		_, err = os.Stdout.WriteString(table)
		return err
	}
	return os.WriteFile(outPath, []byte(table), 0644)
}

func comparisonTable(results []engine.ComparisonResult) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTRATEGY\tPRESET\tPLACED\tUNPLACED\tUTILIZATION\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			r.Scenario.Name, r.Scenario.Strategy, r.Scenario.Config.Preset.Name,
			r.PlacedCount, r.UnplacedCount, r.Utilization,
			r.Elapsed.Round(time.Millisecond))
	}
	w.Flush()
	return buf.String()
}

func writeResponse(path string, resp model.NestResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// asMultiSheet normalizes both response shapes for the exporters, which all
// work on multi-sheet results.
func asMultiSheet(resp model.NestResponse) model.MultiSheetResult {
	if len(resp.Sheets) > 0 || resp.Quantities != nil {
		return model.MultiSheetResult{
			Sheets:           resp.Sheets,
			TotalUtilization: resp.TotalUtilization,
			Quantities:       resp.Quantities,
		}
	}
	quantities := make(map[string]int)
	for _, pl := range resp.Placements {
		quantities[pl.ID]++
	}
	return model.MultiSheetResult{
		Sheets: []model.SheetResult{{
			SheetIndex:  0,
			Placements:  resp.Placements,
			Utilization: resp.Utilization,
		}},
		TotalUtilization: resp.Utilization,
		Quantities:       quantities,
	}
}

// exportDXFSheets writes one DXF per sheet. Multi-sheet runs get a numbered
// suffix before the extension.
func exportDXFSheets(path string, result model.MultiSheetResult, parts []model.Part, sheet model.Sheet) error {
	if len(result.Sheets) == 1 {
		return export.ExportDXF(path, result.Sheets[0], parts, sheet)
	}
	base, ext := path, ".dxf"
	if i := strings.LastIndex(path, "."); i > 0 {
		base, ext = path[:i], path[i:]
	}
	for _, sr := range result.Sheets {
		if len(sr.Placements) == 0 {
			continue
		}
		name := fmt.Sprintf("%s_sheet%d%s", base, sr.SheetIndex+1, ext)
		if err := export.ExportDXF(name, sr, parts, sheet); err != nil {
			return err
		}
	}
	return nil
}

func saveProjectFile(path string, req model.NestRequest, parts []model.Part, result model.MultiSheetResult) error {
	p := model.NewProject(strings.TrimSuffix(strings.TrimSuffix(path, ".json"), ".snest"))
	p.Parts = parts
	p.Settings = settingsFromRequest(req)
	p.Result = &result
	return project.SaveProject(path, &p)
}

func fail(err error) {
	log.Fatal(err)
}
