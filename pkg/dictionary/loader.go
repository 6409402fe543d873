package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordmatch/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"
)

const (
	chunkGlob   = "dict_*.bin"
	chunkPrefix = "dict_"
	chunkSuffix = ".bin"
	// maxTokenSize bounds a single whitespace separated token.
	maxTokenSize = 1 << 20
	// maxChunkPrealloc bounds the capacity taken from a chunk header,
	// larger chunks grow by append.
	maxChunkPrealloc = 1 << 16
)

// Options control how a word list is turned into a Store.
type Options struct {
	// MaxWords caps the number of accepted words, 0 loads everything.
	MaxWords int
	// Strict fails the load on the first token outside 'a'..'z'
	// instead of skipping it.
	Strict bool
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID       int
	Filename string
}

// Load reads the word list at path. The format is picked by DetectFileFormat.
func Load(path string, opts Options) (*Store, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loading %s from %s", format, path)

	switch format {
	case FormatChunkDir:
		return LoadChunkDir(path, opts)
	case FormatChunk:
		words, err := readChunkFile(path)
		if err != nil {
			return nil, err
		}
		return buildStore(words, opts, path)
	case FormatText, FormatGzip, FormatZstd, FormatLZ4:
		return loadTextFile(path, format, opts)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// loadTextFile opens path and wraps it with the decompressor for format.
func loadTextFile(path string, format FileFormat, opts Options) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	switch format {
	case FormatGzip:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case FormatZstd:
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	case FormatLZ4:
		r = lz4.NewReader(file)
	}

	store, err := ReadWords(r, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list %s: %w", path, err)
	}
	return store, nil
}

// ReadWords builds a Store from whitespace separated tokens, in read order.
func ReadWords(r io.Reader, opts Options) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return buildStore(tokens, opts, "input")
}

// buildStore filters tokens per opts and hands the survivors to newStore.
func buildStore(tokens []string, opts Options, source string) (*Store, error) {
	words := tokens[:0]
	skipped := 0
	for n, tok := range tokens {
		if opts.MaxWords > 0 && len(words) >= opts.MaxWords {
			break
		}
		if ok, pos := utils.IsLowerWord(tok); !ok {
			if opts.Strict {
				return nil, fmt.Errorf("token %d %q at offset %d: %w", n, tok, pos, ErrInvalidWord)
			}
			skipped++
			continue
		}
		words = append(words, tok)
	}
	if skipped > 0 {
		log.Warnf("Skipped %d invalid tokens in %s (only a-z is indexed)", skipped, source)
	}
	log.Debugf("Accepted %d words from %s", len(words), source)
	return newStore(words), nil
}

// GetAvailableChunks scans dir for chunk files, sorted by chunk id.
func GetAvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, chunkGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), chunkPrefix), chunkSuffix)
		id, err := strconv.Atoi(idStr)
		if err != nil {
			log.Warnf("Ignoring chunk with malformed name: %s", file)
			continue
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// LoadChunkDir decodes every chunk in dir concurrently, then concatenates
// them in chunk id order so word ids stay deterministic.
func LoadChunkDir(dir string, opts Options) (*Store, error) {
	chunks, err := GetAvailableChunks(dir)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoChunks)
	}
	log.Debugf("Found %d chunk files", len(chunks))

	decoded := make([][]string, len(chunks))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, chunk := range chunks {
		g.Go(func() error {
			words, err := readChunkFile(chunk.Filename)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.ID, err)
			}
			decoded[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, words := range decoded {
		total += len(words)
	}
	all := make([]string, 0, total)
	for _, words := range decoded {
		all = append(all, words...)
	}
	return buildStore(all, opts, dir)
}

// readChunkFile reads one chunk:
// int32 word count, then per word a uint16 length, the bytes and a uint16 rank.
// Ranks are ignored; file order is id order. A chunk holding fewer words than
// its header claims fails with io.ErrUnexpectedEOF.
func readChunkFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()
	words, err := readChunk(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("chunk file %s: %w", filename, err)
	}
	return words, nil
}

func readChunk(r io.Reader) ([]string, error) {
	var totalEntries int32
	if err := binary.Read(r, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return nil, fmt.Errorf("invalid word count %d (negative)", totalEntries)
	}

	words := make([]string, 0, min(int(totalEntries), maxChunkPrealloc))
	for len(words) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read %d of %d words: %w", len(words), totalEntries, err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		words = append(words, string(wordBytes))
	}
	return words, nil
}

// WriteChunks splits the store into dict_NNNN.bin files of chunkSize words.
// Rank is the word's 1-based position inside its chunk.
func WriteChunks(s *Store, dir string, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		return 0, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkSize > math.MaxUint16 {
		chunkSize = math.MaxUint16
	}
	if err := utils.EnsureDir(dir); err != nil {
		return 0, err
	}

	written := 0
	for start := 0; start < len(s.words); start += chunkSize {
		end := min(start+chunkSize, len(s.words))
		written++
		filename := filepath.Join(dir, fmt.Sprintf("%s%04d%s", chunkPrefix, written, chunkSuffix))
		if err := writeChunkFile(filename, s.words[start:end]); err != nil {
			return written - 1, err
		}
		log.Debugf("Wrote chunk %s with %d words", filename, end-start)
	}
	return written, nil
}

func writeChunkFile(filename string, words []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > math.MaxUint16 {
			return fmt.Errorf("word %q too long for chunk format", word)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := w.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(i+1)); err != nil {
			return err
		}
	}
	return w.Flush()
}
