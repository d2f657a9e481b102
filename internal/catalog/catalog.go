package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/wardrobe-labs/stylematch/internal/models"
	"github.com/wardrobe-labs/stylematch/internal/providers"
	"gopkg.in/yaml.v3"
)

// NoMetadataSentinel is embedded in an entry's descriptor line when the
// side-table has nothing for that filename. The model still needs a text
// line before every image so it can correlate the image with its identity.
const NoMetadataSentinel = "no metadata available"

// Entry is one reference image held in memory for the process lifetime.
// Bytes are immutable after load.
type Entry struct {
	Filename string
	MIME     string
	Data     []byte
	Metadata models.ItemMetadata
}

// Catalog loads the reference image directory and its metadata side-table
// exactly once per process and serves the prebuilt prompt context. It is
// constructed at startup and shared by reference; all fields behind the
// sync.Once guards are read-only after the first load.
type Catalog struct {
	imageDir     string
	metadataPath string

	metaOnce sync.Once
	meta     map[string]models.ItemMetadata

	loadOnce sync.Once
	entries  []Entry
	parts    providers.Payload
}

// New returns a Catalog rooted at imageDir with an optional metadata
// side-table. Nothing is read until first use.
func New(imageDir, metadataPath string) *Catalog {
	return &Catalog{
		imageDir:     imageDir,
		metadataPath: metadataPath,
	}
}

// Metadata returns the side-table keyed by filename. A missing or unreadable
// table is not fatal: matching still works, enrichment just has nothing to
// fall back to.
func (c *Catalog) Metadata() map[string]models.ItemMetadata {
	c.metaOnce.Do(func() {
		c.meta = c.loadMetadata()
	})
	return c.meta
}

// Context returns the prebuilt (descriptor, image) part sequence in sorted
// filename order. Repeated calls return the same slice; an empty slice means
// the catalog directory is missing or holds no images.
func (c *Catalog) Context() providers.Payload {
	c.load()
	return c.parts
}

// Entries returns the loaded catalog entries in sorted filename order.
func (c *Catalog) Entries() []Entry {
	c.load()
	return c.entries
}

// Image returns the raw bytes and MIME type for a loaded catalog filename.
func (c *Catalog) Image(filename string) ([]byte, string, error) {
	c.load()
	for i := range c.entries {
		if c.entries[i].Filename == filename {
			return c.entries[i].Data, c.entries[i].MIME, nil
		}
	}
	return nil, "", fmt.Errorf("image %q not in catalog", filename)
}

func (c *Catalog) load() {
	c.loadOnce.Do(func() {
		meta := c.Metadata()

		dirEntries, err := os.ReadDir(c.imageDir)
		if err != nil {
			slog.Warn("Unable to read catalog image directory", "dir", c.imageDir, "err", err)
			return
		}

		var names []string
		for _, de := range dirEntries {
			if !de.Type().IsRegular() {
				continue
			}
			if mimeForFilename(de.Name()) == "" {
				continue
			}
			names = append(names, de.Name())
		}
		// Sorted order keeps the prompt byte-identical across restarts
		// with the same catalog state.
		sort.Strings(names)

		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(c.imageDir, name))
			if err != nil {
				slog.Warn("Skipping unreadable catalog image", "filename", name, "err", err)
				continue
			}
			entry := Entry{
				Filename: name,
				MIME:     mimeForFilename(name),
				Data:     data,
				Metadata: meta[name],
			}
			c.entries = append(c.entries, entry)
			c.parts = append(c.parts,
				providers.TextPart(descriptorLine(entry)),
				providers.ImagePart(entry.Data, entry.MIME),
			)
		}

		slog.Info("Catalog loaded", "dir", c.imageDir, "images", len(c.entries), "metadata_entries", len(meta))
	})
}

// descriptorLine builds the text part that precedes each catalog image so
// the model can tie the image back to a filename and its attributes.
func descriptorLine(e Entry) string {
	snippet := NoMetadataSentinel
	if !e.Metadata.Empty() {
		if b, err := json.Marshal(e.Metadata); err == nil {
			snippet = string(b)
		}
	}
	return fmt.Sprintf("Catalog item: %s\nMetadata: %s", e.Filename, snippet)
}

// loadMetadata reads the side-table, sniffing the format from the file
// extension. Supported: .json, .yaml/.yml, .parquet.
func (c *Catalog) loadMetadata() map[string]models.ItemMetadata {
	if c.metadataPath == "" {
		return map[string]models.ItemMetadata{}
	}

	ext := strings.ToLower(filepath.Ext(c.metadataPath))

	var (
		meta map[string]models.ItemMetadata
		err  error
	)
	switch ext {
	case ".parquet":
		meta, err = loadParquetMetadata(c.metadataPath)
	case ".yaml", ".yml":
		meta, err = loadYAMLMetadata(c.metadataPath)
	case ".json":
		meta, err = loadJSONMetadata(c.metadataPath)
	default:
		err = fmt.Errorf("unsupported metadata format: %s (supported: .json, .yaml, .parquet)", ext)
	}
	if err != nil {
		slog.Warn("Catalog metadata unavailable, continuing without it", "path", c.metadataPath, "err", err)
		return map[string]models.ItemMetadata{}
	}
	return meta
}

func loadJSONMetadata(path string) (map[string]models.ItemMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := map[string]models.ItemMetadata{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	return meta, nil
}

func loadYAMLMetadata(path string) (map[string]models.ItemMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta := map[string]models.ItemMetadata{}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata YAML: %w", err)
	}
	return meta, nil
}

// metadataRow is the parquet row shape for the side-table.
type metadataRow struct {
	Filename  string `parquet:"filename"`
	Title     string `parquet:"title"`
	Brand     string `parquet:"brand"`
	Color     string `parquet:"color"`
	ColorCode string `parquet:"color_code"`
}

func loadParquetMetadata(path string) (map[string]models.ItemMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat metadata file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[metadataRow](pf)
	defer reader.Close()

	meta := map[string]models.ItemMetadata{}
	rows := make([]metadataRow, 64)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			meta[row.Filename] = models.ItemMetadata{
				Title:     row.Title,
				Brand:     row.Brand,
				Color:     row.Color,
				ColorCode: row.ColorCode,
			}
		}
		if err != nil {
			break
		}
	}
	return meta, nil
}

// mimeForFilename maps a catalog filename to its MIME type, or "" when the
// extension is not a supported image format.
func mimeForFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return ""
	}
}
