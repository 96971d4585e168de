package file

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sent "github.com/revelaction/terms/sentence"
)

const (
	FormatTxt    = "txt"
	FormatJSONL  = "jsonl"
	FormatCSV    = "csv"
	FormatConllu = "conllu"
)

var ErrUnknownFormat = errors.New("unknown input format")

func SupportedFormats() []string {
	return []string{FormatTxt, FormatJSONL, FormatCSV, FormatConllu}
}

// Format returns the input format for the file extension of path.
func Format(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", "":
		return FormatTxt, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".csv":
		return FormatCSV, nil
	case ".conllu", ".conll":
		return FormatConllu, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadInputs reads the inputs of the file at path, the format given by its
// extension.
func ReadInputs(path string) ([]sent.Input, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeInputs(f, format)
}

// DecodeInputs decodes inputs in the format:
//
//   - txt: one text per line, the id is the line number (from 1). Empty
//     lines are skipped.
//   - jsonl: one {"text": "...", "id": "..."} object per line.
//   - csv: a header with the columns text and id (any order), one input per
//     record.
func DecodeInputs(r io.Reader, format string) ([]sent.Input, error) {
	switch format {
	case FormatTxt:
		return decodeTxt(r)
	case FormatJSONL:
		return decodeJSONL(r)
	case FormatCSV:
		return decodeCSV(r)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func decodeTxt(r io.Reader) ([]sent.Input, error) {
	inputs := []sent.Input{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		inputs = append(inputs, sent.Input{Text: text, Id: strconv.Itoa(line)})
	}

	return inputs, scanner.Err()
}

func decodeJSONL(r io.Reader) ([]sent.Input, error) {
	inputs := []sent.Input{}
	dec := json.NewDecoder(r)

	for n := 1; ; n++ {
		var in sent.Input
		err := dec.Decode(&in)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("JSON decoding error in record %d: %w", n, err)
		}

		if in.Id == "" {
			in.Id = strconv.Itoa(n)
		}

		inputs = append(inputs, in)
	}

	return inputs, nil
}

func decodeCSV(r io.Reader) ([]sent.Input, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return []sent.Input{}, nil
	}

	if err != nil {
		return nil, err
	}

	textCol, idCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "text":
			textCol = i
		case "id", "uuid":
			idCol = i
		}
	}

	if textCol < 0 {
		return nil, errors.New("csv header has no text column")
	}

	inputs := []sent.Input{}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		in := sent.Input{Text: rec[textCol], Id: strconv.Itoa(n)}
		if idCol >= 0 {
			in.Id = rec[idCol]
		}

		inputs = append(inputs, in)
	}

	return inputs, nil
}
