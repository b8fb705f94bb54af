package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"grider/internal/storage"
)

var errUsage = errors.New("usage")

// runCommand executes cmd and reports the outcome on the status line.
func (a *App) runCommand(cmd string) {
	if err := a.ExecuteCommand(cmd); err != nil {
		a.Message = err.Error()
		a.logger.Warn("command failed", "cmd", cmd, "err", err)
	}
}

// ExecuteCommand runs one ":" command:
//
//	q | quit          leave
//	cw N / rh N       set every column width / row height
//	w [file] [csv]    save, CSV when the name ends in .csv or "csv" is given
//	o file [csv]      open
//	recalc            recompute every formula
func (a *App) ExecuteCommand(cmd string) error {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		v, err := intArg(parts, 4)
		if err != nil {
			return fmt.Errorf("cw: %w", err)
		}
		for i := range a.ColWidths {
			a.ColWidths[i] = v
		}
	case "rh":
		v, err := intArg(parts, 1)
		if err != nil {
			return fmt.Errorf("rh: %w", err)
		}
		for i := range a.RowHeights {
			a.RowHeights[i] = v
		}
	case "w":
		name := a.FileName
		if len(parts) >= 2 {
			name = parts[1]
		}
		if name == "" {
			return fmt.Errorf("w: %w: w file [csv]", errUsage)
		}
		return a.Save(name, flagArg(parts))
	case "o":
		if len(parts) < 2 {
			return fmt.Errorf("o: %w: o file [csv]", errUsage)
		}
		return a.Open(parts[1], flagArg(parts))
	case "recalc":
		a.Sheet.Recalculate()
		a.Message = "recalculated"
	default:
		return fmt.Errorf("unknown command %q", parts[0])
	}
	return nil
}

// Save writes the sheet as CSV or as a .grider document.
func (a *App) Save(name, flag string) error {
	path, csv := storage.IsCSV(name, flag)
	var err error
	if csv {
		err = storage.SaveCSV(a.Sheet.Snapshot(), path)
	} else {
		err = storage.SaveDocument(storage.Document{
			ColWidths:  a.ColWidths,
			RowHeights: a.RowHeights,
			Cells:      a.Sheet.Snapshot(),
		}, path)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	a.FileName = path
	a.Message = "saved " + path
	a.logger.Info("saved", "file", path, "csv", csv)
	return nil
}

// Open replaces the sheet with the contents of a CSV or .grider file and
// moves the cursor home.
func (a *App) Open(name, flag string) error {
	path, csv := storage.IsCSV(name, flag)
	if csv {
		cells, maxR, maxC, err := storage.LoadCSV(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		if err := a.Sheet.Load(cells); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		a.EnsureColExists(maxC)
		a.EnsureRowExists(maxR)
	} else {
		doc, err := storage.LoadDocument(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		if err := a.Sheet.Load(doc.Cells); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		a.ColWidths = append([]int(nil), doc.ColWidths...)
		a.RowHeights = append([]int(nil), doc.RowHeights...)
		maxR, maxC := a.Sheet.Bounds()
		a.EnsureColExists(max(maxC, 0))
		a.EnsureRowExists(max(maxR, 0))
	}
	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	a.FileName = path
	a.Message = "opened " + path
	a.logger.Info("opened", "file", path, "cells", len(a.Sheet.Labels()))
	return nil
}

func intArg(parts []string, minimum int) (int, error) {
	if len(parts) < 2 {
		return 0, fmt.Errorf("%w: %s N", errUsage, parts[0])
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if v < minimum {
		return 0, fmt.Errorf("%d is below the minimum %d", v, minimum)
	}
	return v, nil
}

func flagArg(parts []string) string {
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}
