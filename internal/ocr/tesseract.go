package ocr

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Tesseract shells out to the tesseract binary. Word boxes come from a
// second run in tsv mode.
type Tesseract struct {
	Timeout time.Duration
}

func NewTesseract() *Tesseract {
	return &Tesseract{Timeout: 20 * time.Second}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte, opts Options) (Result, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return Result{}, errors.New("tesseract not found in PATH")
	}
	f, err := os.CreateTemp("", "shot-*.img")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(image); err != nil {
		f.Close()
		return Result{}, err
	}
	if err := f.Close(); err != nil {
		return Result{}, err
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	lang := opts.Language
	if lang == "" {
		lang = "eng"
	}

	text, err := t.run(ctx, f.Name(), lang, false)
	if err != nil {
		return Result{}, err
	}
	res := Result{Text: text}
	if opts.WantWords {
		tsv, err := t.run(ctx, f.Name(), lang, true)
		if err != nil {
			return Result{}, err
		}
		res.Words, res.Confidence = parseTSV(tsv)
	}
	return res, nil
}

func (t *Tesseract) run(ctx context.Context, inPath, lang string, tsv bool) (string, error) {
	args := []string{inPath, "stdout", "-l", lang}
	if tsv {
		args = append(args, "tsv")
	}
	cmd := exec.CommandContext(ctx, "tesseract", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
		return "", err
	}
	return out.String(), nil
}

// parseTSV reads tesseract tsv output. Word rows have level 5 and columns
// level page block par line word left top width height conf text.
func parseTSV(s string) ([]Word, float64) {
	var (
		words   []Word
		confSum float64
	)
	sc := bufio.NewScanner(strings.NewReader(s))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		left, _ := strconv.Atoi(cols[6])
		top, _ := strconv.Atoi(cols[7])
		width, _ := strconv.Atoi(cols[8])
		height, _ := strconv.Atoi(cols[9])
		words = append(words, Word{
			Text: text,
			Box:  Box{X0: left, Y0: top, X1: left + width, Y1: top + height},
		})
		confSum += conf
	}
	if len(words) == 0 {
		return nil, 0
	}
	return words, confSum / float64(len(words))
}
