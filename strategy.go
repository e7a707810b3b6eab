package unarchive

// Package file strategy.go contains the ordered extraction strategies of each format.

import (
	"context"

	"github.com/Defacto2/unarchive/command"
)

// strategy is a single way of extracting an archive format.
type strategy struct {
	name     string // name of the Go package or the external program
	external bool   // external is true for an external program
	usable   bool   // usable is false when the external program is not installed
	extract  func(ctx context.Context, x Extractor) error
}

// Strategies returns the names of the usable extraction strategies
// for the format in the order they are tried.
func (d *Dispatcher) Strategies(f Format) []string {
	names := []string{}
	for _, s := range d.strategies(f) {
		if s.usable {
			names = append(names, s.name)
		}
	}
	return names
}

// strategies returns the ordered extraction strategies for the format.
// The Go decoder comes first unless the configuration prefers or
// requires the external programs.
func (d *Dispatcher) strategies(f Format) []strategy {
	t := d.cfg.Tools
	zip7 := strategy{
		name: command.Zip7, external: true, usable: t.Zip7 != "",
		extract: func(ctx context.Context, x Extractor) error { return x.Zip7(ctx, t.Zip7) },
	}
	bsdtar := strategy{
		name: command.BSDTar, external: true, usable: t.BSDTar != "",
		extract: func(ctx context.Context, x Extractor) error { return x.BSDTar(ctx, t.BSDTar) },
	}
	unrar := strategy{
		name: command.Unrar, external: true, usable: t.Unrar != "",
		extract: func(ctx context.Context, x Extractor) error { return x.Unrar(ctx, t.Unrar) },
	}
	unar := strategy{
		name: command.Unar, external: true, usable: t.Unar != "",
		extract: func(ctx context.Context, x Extractor) error { return x.Unar(ctx, t.Unar) },
	}

	var native strategy
	var external []strategy
	switch f {
	case Zip:
		native = strategy{
			name: "archive/zip", usable: true,
			extract: func(ctx context.Context, x Extractor) error { return x.Zip(ctx) },
		}
		external = []strategy{zip7, bsdtar}
	case Tar, TarGz, TarBz2, TarXz:
		native = strategy{
			name: "archive/tar", usable: true,
			extract: func(ctx context.Context, x Extractor) error { return x.Tar(ctx, f) },
		}
		external = []strategy{bsdtar}
	case Zip7:
		native = strategy{
			name: "sevenzip", usable: true,
			extract: func(ctx context.Context, x Extractor) error { return x.SevenZip(ctx) },
		}
		external = []strategy{zip7, bsdtar, unar}
	case Rar:
		native = strategy{
			name: "rardecode", usable: true,
			extract: func(ctx context.Context, x Extractor) error { return x.Rar(ctx) },
		}
		external = []strategy{unrar, zip7, bsdtar, unar}
	case Unknown:
		return nil
	}
	switch {
	case d.cfg.NoNative:
		return external
	case d.cfg.PreferExternal:
		return append(external, native)
	}
	return append([]strategy{native}, external...)
}
