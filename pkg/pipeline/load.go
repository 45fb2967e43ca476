package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shelfconv/pkg/bookshelf"
	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/netlist"
	"github.com/matzehuels/shelfconv/pkg/row"
)

// Design is a loaded benchmark: its row model, its netlist and the advisory
// warnings raised while reading it.
type Design struct {
	Name     string
	Manifest *bookshelf.Manifest
	Rows     *row.Model
	Netlist  *netlist.Design
	Warnings errors.Warnings
}

// LoadDesign reads the benchmark at opts.AuxPath without caching.
//
// The .scl file is read concurrently with the .nodes/.pl/.nets chain. Each
// side builds its own model, so no locking is needed.
func LoadDesign(ctx context.Context, opts Options) (*Design, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	m, err := bookshelf.ReadAux(opts.AuxPath)
	if err != nil {
		return nil, err
	}
	return loadManifest(ctx, m, opts)
}

func loadManifest(ctx context.Context, m *bookshelf.Manifest, opts Options) (*Design, error) {
	var (
		rows                       *row.Model
		rowWarn, nodeWarn, netWarn errors.Warnings
	)
	d := netlist.New()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readFile(gctx, m.Rows, func(r io.Reader, name string) (err error) {
			rows, rowWarn, err = bookshelf.ReadSCL(r, name, opts.RowHeight, opts.SiteWidth)
			return err
		})
	})
	g.Go(func() error {
		err := readFile(gctx, m.Nodes, func(r io.Reader, name string) (err error) {
			nodeWarn, err = bookshelf.ReadNodes(r, name, d)
			return err
		})
		if err != nil {
			return err
		}
		err = readFile(gctx, m.Placement, func(r io.Reader, name string) error {
			return bookshelf.ReadPlacement(r, name, d)
		})
		if err != nil {
			return err
		}
		return readFile(gctx, m.Nets, func(r io.Reader, name string) (err error) {
			netWarn, err = bookshelf.ReadNets(r, name, d)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	design := &Design{
		Name:     m.Name,
		Manifest: m,
		Rows:     rows,
		Netlist:  d,
	}
	design.Warnings = append(design.Warnings, rowWarn...)
	design.Warnings = append(design.Warnings, nodeWarn...)
	design.Warnings = append(design.Warnings, netWarn...)
	return design, nil
}

// readFile opens path and hands it to read under its base name, which is the
// name reported in error positions. Cancellation is checked before the file
// is opened.
func readFile(ctx context.Context, path string, read func(io.Reader, string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f, filepath.Base(path))
}

// =============================================================================
// Snapshots
// =============================================================================

// designSnapshot is the cached form of a Design.
type designSnapshot struct {
	Name      string           `msgpack:"name"`
	RowHeight int              `msgpack:"row_height"`
	SiteWidth int              `msgpack:"site_width"`
	Rows      []row.Row        `msgpack:"rows"`
	Netlist   netlist.Snapshot `msgpack:"netlist"`
	Warnings  []errors.Warning `msgpack:"warnings"`
}

func snapshotOf(d *Design) designSnapshot {
	return designSnapshot{
		Name:      d.Name,
		RowHeight: d.Rows.RowHeight,
		SiteWidth: d.Rows.SiteWidth,
		Rows:      d.Rows.Rows,
		Netlist:   d.Netlist.Snapshot(),
		Warnings:  d.Warnings,
	}
}

func (s designSnapshot) design(m *bookshelf.Manifest) (*Design, error) {
	rows := row.New(s.RowHeight, s.SiteWidth)
	for _, r := range s.Rows {
		rows.AddRow(r.Y, r.XStart, r.NumSites(s.SiteWidth))
	}
	nl, err := netlist.FromSnapshot(s.Netlist)
	if err != nil {
		return nil, err
	}
	return &Design{
		Name:     s.Name,
		Manifest: m,
		Rows:     rows,
		Netlist:  nl,
		Warnings: s.Warnings,
	}, nil
}
