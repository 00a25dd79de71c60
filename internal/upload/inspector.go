// Package upload checks a chosen spreadsheet before it is sent to the backend.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/mithrel/tally/pkg/api"
)

var (
	ErrNoFile      = errors.New("no file chosen")
	ErrNotFound    = errors.New("file does not exist")
	ErrIsDir       = errors.New("path is a directory, not a file")
	ErrEmpty       = errors.New("file is empty")
	ErrTooLarge    = errors.New("file is too large")
	ErrExtension   = errors.New("unsupported file type")
	ErrNotWorkbook = errors.New("file is not a readable workbook")
)

var rejections = []error{ErrNoFile, ErrNotFound, ErrIsDir, ErrEmpty, ErrTooLarge, ErrExtension, ErrNotWorkbook}

// IsRejection reports whether err is a problem with the chosen file itself
// rather than an I/O failure while inspecting it.
func IsRejection(err error) bool {
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}

const DefaultMaxBytes = 20 << 20

var DefaultExtensions = []string{".xlsx", ".xls", ".xlsm"}

// workbookExts are the formats excelize can open; legacy .xls is passed
// through to the backend unchecked.
var workbookExts = []string{".xlsx", ".xlsm"}

type Options struct {
	MaxBytes       int64
	Extensions     []string
	VerifyWorkbook bool
}

type Inspector struct {
	maxBytes       int64
	extensions     []string
	verifyWorkbook bool
}

func NewInspector(opts Options) *Inspector {
	in := &Inspector{
		maxBytes:       opts.MaxBytes,
		verifyWorkbook: opts.VerifyWorkbook,
	}
	if in.maxBytes <= 0 {
		in.maxBytes = DefaultMaxBytes
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		in.extensions = append(in.extensions, e)
	}
	return in
}

// Inspect validates path and describes it, digest included.
func (in *Inspector) Inspect(ctx context.Context, path string) (api.Upload, error) {
	logger := zerolog.Ctx(ctx)
	if strings.TrimSpace(path) == "" {
		return api.Upload{}, ErrNoFile
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug().Str("file", path).Msg("upload rejected: missing")
		return api.Upload{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return api.Upload{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return api.Upload{}, fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	if info.Size() == 0 {
		return api.Upload{}, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if info.Size() > in.maxBytes {
		logger.Debug().Str("file", path).Int64("size", info.Size()).Int64("max", in.maxBytes).Msg("upload rejected: size")
		return api.Upload{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, info.Size(), in.maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(in.extensions, ext) {
		return api.Upload{}, fmt.Errorf("%w %q (allowed: %s)", ErrExtension, ext, strings.Join(in.extensions, ", "))
	}
	if in.verifyWorkbook && slices.Contains(workbookExts, ext) {
		if err := checkWorkbook(path); err != nil {
			logger.Debug().Err(err).Str("file", path).Msg("upload rejected: workbook")
			return api.Upload{}, fmt.Errorf("%w: %v", ErrNotWorkbook, err)
		}
	}
	digest, err := api.DigestFile(path)
	if err != nil {
		return api.Upload{}, fmt.Errorf("digest %s: %w", path, err)
	}
	up := api.Upload{
		Path:   path,
		Name:   filepath.Base(path),
		Size:   info.Size(),
		Digest: digest,
	}
	logger.Debug().Str("file", up.Name).Int64("size", up.Size).Str("digest", api.ShortDigest(digest)).Msg("upload inspected")
	return up, nil
}

// checkWorkbook only confirms the container opens and has a sheet; the
// transaction columns are the backend's business.
func checkWorkbook(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		return errors.New("workbook has no sheets")
	}
	return nil
}
