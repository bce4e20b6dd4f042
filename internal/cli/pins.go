package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/avoronin/facadekeeper/internal/models"
)

// Pins lists the project's pins.
func (a *App) Pins(ctx context.Context) error {
	list, err := a.svc.Pins(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No pins yet. Use: addpin")
		return nil
	}
	for _, p := range list {
		printfFn("#%d  %-30s  %-25s  %s / %s  @ %s (%.6f, %.6f)\n",
			p.ID, p.Title(), p.Status, p.Material, p.Defect, p.Elevation, p.Pos.X, p.Pos.Y)
	}
	return nil
}

// AddPin places a pin interactively. A pin landing on an already-occupied
// spot updates that pin instead of creating a second marker.
func (a *App) AddPin(ctx context.Context) error {
	elevation, err := GetSimpleText(a.reader, "Elevation (e.g. North):", os.Stdout)
	if err != nil {
		return err
	}
	x, err := a.getCoordinate("X (0..1):")
	if err != nil {
		return err
	}
	y, err := a.getCoordinate("Y (0..1):")
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Name:", os.Stdout)
	if err != nil {
		return err
	}
	status, err := GetSimpleText(a.reader, "Status ("+strings.Join(models.StatusOptions, ", ")+"):", os.Stdout)
	if err != nil {
		return err
	}
	material, err := GetSimpleText(a.reader, "Material:", os.Stdout)
	if err != nil {
		return err
	}
	defectPrompt := "Defect:"
	if options := models.DefectsFor(material); len(options) > 0 {
		defectPrompt = "Defect (" + strings.Join(options, ", ") + "):"
	}
	defect, err := GetSimpleText(a.reader, defectPrompt, os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.svc.UpsertAndLink(ctx, models.Pin{
		Pos:      &models.Position{X: x, Y: y},
		Name:     name,
		Status:   status,
		Material: material,
		Defect:   defect,
	}, elevation)
	if err != nil {
		return err
	}

	if res.Created {
		printfFn("Created pin #%d (finding #%d)\n", res.Pin.ID, res.Finding.ID)
	} else {
		printfFn("Updated existing pin #%d at that spot (finding #%d)\n", res.Pin.ID, res.Finding.ID)
	}
	return nil
}

func (a *App) getCoordinate(prompt string) (float64, error) {
	s, err := GetSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// Board prints the findings grouped by status, in board column order.
func (a *App) Board(ctx context.Context) error {
	buckets := a.svc.Board(ctx)
	columns := append(append([]string{}, models.StatusOptions...), models.StatusOther)
	for _, status := range columns {
		list := buckets[status]
		printfFn("%s [%s] (%d)\n", status, models.StatusColor(status), len(list))
		for _, f := range list {
			printfFn("  #%d %s [pin %d]\n", f.ID, f.Title, f.PinID)
		}
	}
	return nil
}

// DelFind removes one finding from the board after confirmation.
func (a *App) DelFind(ctx context.Context, finding string) error {
	id, err := strconv.Atoi(finding)
	if err != nil {
		return fmt.Errorf("invalid finding id %q", finding)
	}
	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete finding %d from the board? (y/N)", id), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		printlnFn("Cancelled.")
		return nil
	}
	ok, err := a.svc.DeleteFinding(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("No finding with that id.")
		return nil
	}
	printlnFn("Finding deleted.")
	return nil
}

// Summary prints the material/defect counts.
func (a *App) Summary(ctx context.Context) error {
	rows, err := a.svc.Summary(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		printlnFn("No material/defect data yet.")
		return nil
	}
	for _, r := range rows {
		printfFn("%3d  %s / %s\n", r.Count, r.Material, r.Defect)
	}
	return nil
}
