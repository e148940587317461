package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/wordmap"
	"github.com/charmbracelet/log"
)

// ErrInvalidWord is returned for word list lines that cannot be vocabulary words.
var ErrInvalidWord = errors.New("invalid word")

// maxLineSize bounds a single line of a word or permutation file.
const maxLineSize = 1 << 20

// ReadWords reads one word per line. Surrounding whitespace (including the CR
// of CRLF files) is stripped and blank lines are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var words []string
	line := 0
	for scanner.Scan() {
		line++
		word := utils.TrimLine(scanner.Text())
		if word == "" {
			continue
		}
		if !utils.IsValidWord(word) {
			return nil, fmt.Errorf("line %d: %q: %w", line, word, ErrInvalidWord)
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words at line %d: %w", line+1, err)
	}
	return words, nil
}

// LoadWords reads a word list file.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	words, err := ReadWords(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s", len(words), path)
	return words, nil
}

// ReadPermutation reads whitespace separated decimal indices.
func ReadPermutation(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(bufio.ScanWords)

	var perm []int
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("permutation value %d: %w", len(perm), err)
		}
		perm = append(perm, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read permutation: %w", err)
	}
	return perm, nil
}

// LoadPermutation reads a permutation file.
func LoadPermutation(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open permutation %s: %w", path, err)
	}
	defer file.Close()

	perm, err := ReadPermutation(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d permutation values from %s", len(perm), path)
	return perm, nil
}

// WritePermutation writes one index per line.
func WritePermutation(w io.Writer, perm []int) error {
	bw := bufio.NewWriter(w)
	for _, v := range perm {
		bw.WriteString(strconv.Itoa(v))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SavePermutation writes a permutation file.
func SavePermutation(path string, perm []int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create permutation %s: %w", path, err)
	}
	if err := WritePermutation(file, perm); err != nil {
		file.Close()
		return fmt.Errorf("failed to write permutation %s: %w", path, err)
	}
	return file.Close()
}

// Shuffle returns a random permutation of 0..n-1 drawn from seed.
// For n > 1 it is a single cycle, so no index maps to itself.
func Shuffle(n int, seed uint64) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	// Sattolo's variant of Fisher-Yates
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// PermutationReport describes how a permutation pairs a vocabulary.
type PermutationReport struct {
	Size      int
	Fixed     int // indices mapped to themselves
	Repeated  int // outputs used more than once
	Unused    int // outputs never used
	Bijective bool
}

// CheckPermutation validates perm against a vocabulary of n words. Size and
// range violations are errors; a permutation that is not a bijection is valid
// but reported.
func CheckPermutation(perm []int, n int) (PermutationReport, error) {
	report := PermutationReport{Size: len(perm)}
	if len(perm) != n {
		return report, fmt.Errorf("%d words, %d permutation values: %w", n, len(perm), wordmap.ErrPermutationSizeMismatch)
	}

	used := make([]int, n)
	for i, v := range perm {
		if v < 0 || v >= n {
			return report, fmt.Errorf("value %d at %d: %w", v, i, wordmap.ErrPermutationIndex)
		}
		if v == i {
			report.Fixed++
		}
		used[v]++
	}
	for _, c := range used {
		switch {
		case c == 0:
			report.Unused++
		case c > 1:
			report.Repeated += c - 1
		}
	}
	report.Bijective = report.Unused == 0

	return report, nil
}

// String summarizes the report for logs.
func (r PermutationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d values, %d fixed", r.Size, r.Fixed)
	if !r.Bijective {
		fmt.Fprintf(&b, ", %d repeated, %d unused", r.Repeated, r.Unused)
	}
	return b.String()
}
