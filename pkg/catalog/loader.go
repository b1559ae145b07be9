/*
Package catalog loads the slug catalog from sitemap shard directories
and publishes the immutable search index built from it.

The on-disk contract mirrors the sitemap export layout: a root directory
holding zero or more sitemap-* shard directories, each with a names.txt
of one raw slug per line. A missing root is a hard load failure; a
present-but-empty root yields a valid empty index. Individual records
that cannot be decoded are skipped, never fatal.
*/
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/panjf2000/ants/v2"

	"github.com/AppleLamps/grokipedia-sdk/internal/logger"
	"github.com/AppleLamps/grokipedia-sdk/pkg/config"
	"github.com/AppleLamps/grokipedia-sdk/pkg/slugindex"
)

const (
	shardPattern  = "sitemap-*"
	namesFileName = "names.txt"
)

// ErrCatalogMissing marks an unreachable catalog root. It is the only
// fatal load condition.
var ErrCatalogMissing = errors.New("catalog root directory missing")

// Loader reads raw slugs from every shard under the catalog root and
// drives index construction. Shard files are read concurrently on a
// worker pool, but the index builder itself stays single-writer: no
// partially built structure is ever reachable from the returned value.
type Loader struct {
	dir      string
	poolSize int
	opts     slugindex.Options
	logger   *log.Logger
}

// NewLoader creates a loader rooted at dir, tuned by cfg.
func NewLoader(dir string, cfg *config.Config) *Loader {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	poolSize := cfg.Catalog.PoolSize
	if poolSize < 1 {
		poolSize = runtime.NumCPU()
	}
	return &Loader{
		dir:      dir,
		poolSize: poolSize,
		opts:     cfg.SearchOptions(),
		logger:   logger.New("catalog"),
	}
}

// Build reads the whole catalog and assembles a fresh index. Safe to
// call repeatedly; every call produces an independent value.
func (l *Loader) Build() (*slugindex.Index, error) {
	info, err := os.Stat(l.dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCatalogMissing, l.dir)
	}

	shards, err := filepath.Glob(filepath.Join(l.dir, shardPattern))
	if err != nil {
		return nil, fmt.Errorf("scanning catalog shards: %w", err)
	}
	sort.Strings(shards)

	shardSlugs := make([][]string, len(shards))
	if len(shards) > 0 {
		pool, err := ants.NewPool(min(l.poolSize, len(shards)))
		if err != nil {
			return nil, fmt.Errorf("creating shard reader pool: %w", err)
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for i, shard := range shards {
			wg.Add(1)
			task := func() {
				defer wg.Done()
				slugs, readErr := l.readShard(shard)
				if readErr != nil {
					// Unreadable shards are skipped like unreadable
					// records; only a missing root is fatal.
					l.logger.Warnf("skipping shard %s: %v", shard, readErr)
					return
				}
				shardSlugs[i] = slugs
			}
			if submitErr := pool.Submit(task); submitErr != nil {
				wg.Done()
				l.logger.Warnf("shard %s not scheduled: %v", shard, submitErr)
			}
		}
		wg.Wait()
	}

	// Feed the builder in shard order so dedup tie-breaks never depend
	// on worker scheduling.
	builder := slugindex.NewBuilder()
	for _, slugs := range shardSlugs {
		for _, slug := range slugs {
			builder.Add(slug)
		}
	}
	l.logger.Debugf("catalog loaded: %d shards, %d unique slugs", len(shards), builder.Len())
	return builder.Build(l.opts), nil
}

// readShard returns the decodable, non-blank records of one shard.
func (l *Loader) readShard(shardDir string) ([]string, error) {
	path := filepath.Join(shardDir, namesFileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var slugs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !utf8.ValidString(line) {
			l.logger.Debugf("skipping undecodable record in %s", path)
			continue
		}
		slugs = append(slugs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return slugs, nil
}
