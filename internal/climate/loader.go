package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/coolingload/internal/shading"
)

// Default file names inside the climate data directory
const (
	DefaultDesignFile  = "baza_danych_NSRDB.json"
	DefaultTypicalFile = "baza_danych_PVGIS.json"
	DefaultRTSFile     = "rts_factors.json"
	DefaultShadingFile = "shading_database.json"
)

// rtsTolerance is how far an RTS series may sum from 1 before a warning is logged
const rtsTolerance = 0.01

// FileNames names the four data files
type FileNames struct {
	Design  string
	Typical string
	RTS     string
	Shading string
}

// DefaultFileNames returns the standard file names
func DefaultFileNames() FileNames {
	return FileNames{
		Design:  DefaultDesignFile,
		Typical: DefaultTypicalFile,
		RTS:     DefaultRTSFile,
		Shading: DefaultShadingFile,
	}
}

// DirLoader reads the four data files from a directory
type DirLoader struct {
	Dir    string
	Files  FileNames
	Logger *zap.SugaredLogger
}

// NewDirLoader returns a loader for dir using the default file names
func NewDirLoader(dir string, logger *zap.SugaredLogger) *DirLoader {
	return &DirLoader{Dir: dir, Files: DefaultFileNames(), Logger: logger}
}

// Load reads and decodes all four files concurrently. Any missing or
// undecodable file fails the whole load.
func (l *DirLoader) Load(ctx context.Context) (*Data, error) {
	d := &Data{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.decode(ctx, l.Files.Design, func(r io.Reader) (err error) {
			d.Design, err = DecodeDesign(r)
			return err
		})
	})
	g.Go(func() error {
		return l.decode(ctx, l.Files.Typical, func(r io.Reader) (err error) {
			d.Typical, err = DecodeTypical(r)
			return err
		})
	})
	g.Go(func() error {
		return l.decode(ctx, l.Files.RTS, func(r io.Reader) error {
			return json.NewDecoder(r).Decode(&d.RTS)
		})
	})
	g.Go(func() error {
		return l.decode(ctx, l.Files.Shading, func(r io.Reader) (err error) {
			d.Shading, err = shading.Decode(r)
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := d.RTS.Validate(rtsTolerance); err != nil {
		l.logger().Warnf("rts table: %v", err)
	}
	return d, nil
}

func (l *DirLoader) decode(ctx context.Context, name string, fn func(io.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(l.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("could not decode %s: %w", path, err)
	}
	l.logger().Debugf("loaded %s", path)
	return nil
}

func (l *DirLoader) logger() *zap.SugaredLogger {
	if l.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return l.Logger
}

// WriteDir writes d to dir using the given file names
func WriteDir(dir string, files FileNames, d *Data) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", dir, err)
	}

	writers := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{files.Design, func(w io.Writer) error { return EncodeDesign(w, d.Design) }},
		{files.Typical, func(w io.Writer) error { return EncodeTypical(w, d.Typical) }},
		{files.RTS, func(w io.Writer) error { return encodeJSON(w, d.RTS) }},
		{files.Shading, func(w io.Writer) error { return encodeJSON(w, d.Shading) }},
	}

	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", path, err)
		}
		if err := wr.fn(f); err != nil {
			f.Close()
			return fmt.Errorf("could not write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("could not close %s: %w", path, err)
		}
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
