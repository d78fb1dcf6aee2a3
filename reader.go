package dotlogs

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/AlexandreIorio/dotlogs/sanitizer"
)

// Entry is one parsed log line
type Entry struct {
	Timestamp time.Time
	Level     int64
	Contents  []string // Bracketed fields after the level, then the message (always last)
}

// Message returns the free text of the line, decoded to what was logged
func (e Entry) Message() string {
	if len(e.Contents) == 0 {
		return ""
	}
	return e.Contents[len(e.Contents)-1]
}

// LevelName returns the canonical name of the entry level
func (e Entry) LevelName() string {
	return LevelName(e.Level)
}

// Reader reads log files back from a directory. It takes no locks and
// tolerates files being appended to or rotated while it runs.
type Reader struct {
	fs         afero.Fs
	dir        string
	configName string
	now        func() time.Time
}

// NewReader creates a reader over dir on fs. A nil fs reads the OS filesystem.
func NewReader(fs afero.Fs, dir string) *Reader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Reader{
		fs:         fs,
		dir:        dir,
		configName: ConfigFileName,
		now:        time.Now,
	}
}

// ListFiles returns the paths of all log files in the directory, sorted by
// name. The configuration document and in-flight temp files are excluded.
func (r *Reader) ListFiles() ([]string, error) {
	infos, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to list log directory '%s': %w", r.dir, err)
	}

	var files []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || name == r.configName || strings.HasSuffix(name, ".tmp") {
			continue
		}
		files = append(files, filepath.Join(r.dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// CurrentFile returns the most recently modified log file, or "" if none
func (r *Reader) CurrentFile() (string, error) {
	files, err := r.ListFiles()
	if err != nil {
		return "", err
	}

	var newest string
	var newestTime time.Time
	for _, path := range files {
		info, err := r.fs.Stat(path)
		if err != nil {
			// Removed by retention since the listing
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
	}
	return newest, nil
}

// ParseLine parses one line of the form
// "[timestamp] [LVL] [field]... message". Lines without a valid timestamp
// and level code are rejected.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, "]", 3)
	if len(parts) < 3 {
		return Entry{}, false
	}

	if !strings.HasPrefix(parts[0], "[") {
		return Entry{}, false
	}
	ts, err := time.ParseInLocation(timestampLayout, parts[0][1:], time.UTC)
	if err != nil {
		return Entry{}, false
	}

	code := strings.TrimSpace(parts[1])
	if !strings.HasPrefix(code, "[") {
		return Entry{}, false
	}
	level, ok := levelFromCode(code[1:])
	if !ok {
		return Entry{}, false
	}

	return Entry{
		Timestamp: ts,
		Level:     level,
		Contents:  splitContents(parts[2]),
	}, true
}

// splitContents takes leading bracketed fields one by one. Whatever follows
// the last field is the message and is always the final element, even when
// empty. Writers encode a leading '[' of the message, so it is never taken
// for a field. Encoded characters are decoded.
func splitContents(rest string) []string {
	var contents []string
	for {
		rest = strings.TrimPrefix(rest, " ")
		if !strings.HasPrefix(rest, "[") {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		contents = append(contents, sanitizer.Unescape(rest[1:end]))
		rest = rest[end+1:]
	}
	return append(contents, sanitizer.Unescape(rest))
}

// Query returns every entry at or after from with a level of at least
// minLevel, from all log files, sorted by timestamp. Lines carry whole
// seconds, so from is truncated to its second. Lines that do not parse are
// skipped.
func (r *Reader) Query(from time.Time, minLevel int64) ([]Entry, error) {
	if from.IsZero() {
		return nil, fmtErrorf("%w: query start time is required", ErrMissingTime)
	}
	if !validLevel(minLevel) {
		return nil, fmtErrorf("%w: %d", ErrInvalidLevel, minLevel)
	}

	from = from.UTC().Truncate(time.Second)

	files, err := r.ListFiles()
	if err != nil {
		return nil, err
	}

	type result struct {
		entries []Entry
		err     error
	}
	results := iter.Map(files, func(path *string) result {
		entries, err := r.readFile(*path, from, minLevel)
		return result{entries: entries, err: err}
	})

	var all []Entry
	var finalErr error
	for _, res := range results {
		finalErr = combineErrors(finalErr, res.err)
		all = append(all, res.entries...)
	}
	if len(all) == 0 && finalErr != nil {
		return nil, finalErr
	}
	if finalErr != nil {
		internalLog("partial log read: %v\n", finalErr)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

// QueryDays returns the entries of the last nbDays days. Values below 1 are
// treated as 1.
func (r *Reader) QueryDays(nbDays int, minLevel int64) ([]Entry, error) {
	if nbDays <= 0 {
		nbDays = 1
	}
	return r.Query(r.now().UTC().AddDate(0, 0, -nbDays), minLevel)
}

// QueryRecent returns every entry of the last 24 hours
func (r *Reader) QueryRecent() ([]Entry, error) {
	return r.Query(r.now().UTC().Add(-defaultLookback), LevelVerbose)
}

// readFile parses one file. A final line without a terminator may still be
// in flight and is dropped.
func (r *Reader) readFile(path string, from time.Time, minLevel int64) ([]Entry, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	br := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return entries, nil
			}
			return entries, fmtErrorf("failed to read log file '%s': %w", path, err)
		}
		if len(line) > maxLineSize {
			continue
		}
		entry, ok := ParseLine(line)
		if !ok || entry.Timestamp.Before(from) || entry.Level < minLevel {
			continue
		}
		entries = append(entries, entry)
	}
}
