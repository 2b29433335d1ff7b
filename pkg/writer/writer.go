// Package writer encodes reports as JSON, gzip or zstd compressed JSON, or YAML.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/jar-analysis/pkg/model"
)

// Writer encodes values of type T.
type Writer[T any] interface {
	Write(data T, writer io.Writer) error
	WriteToFile(data T, path string) error
}

// ForFormat returns the writer for format. pretty only affects JSON.
func ForFormat[T any](format model.ReportFormat, pretty bool) Writer[T] {
	switch format {
	case model.FormatJSONGz:
		return NewGzipWriter[T]()
	case model.FormatJSONZst:
		return NewZstdWriter[T]()
	case model.FormatYAML:
		return NewYAMLWriter[T]()
	default:
		if pretty {
			return NewPrettyJSONWriter[T]()
		}
		return NewJSONWriter[T]()
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// JSONWriter writes data as JSON.
type JSONWriter[T any] struct {
	// Indent specifies the indentation for pretty printing.
	// Empty string means compact output.
	Indent string
}

// NewJSONWriter creates a new JSON writer with compact output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: ""}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write writes the data as JSON to the writer.
func (w *JSONWriter[T]) Write(data T, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(data)
}

// WriteToFile writes the data as JSON to a file.
func (w *JSONWriter[T]) WriteToFile(data T, path string) error {
	return writeFile(path, func(f io.Writer) error { return w.Write(data, f) })
}

// GzipWriter writes data as gzipped JSON.
type GzipWriter[T any] struct {
	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int
}

// NewGzipWriter creates a new gzip writer with default compression.
func NewGzipWriter[T any]() *GzipWriter[T] {
	return &GzipWriter[T]{CompressionLevel: gzip.DefaultCompression}
}

// NewGzipWriterWithLevel creates a gzip writer with specified compression level.
func NewGzipWriterWithLevel[T any](level int) *GzipWriter[T] {
	return &GzipWriter[T]{CompressionLevel: level}
}

// Write writes the data as gzipped JSON to the writer.
func (w *GzipWriter[T]) Write(data T, writer io.Writer) error {
	gzWriter, err := gzip.NewWriterLevel(writer, w.CompressionLevel)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return gzWriter.Close()
}

// WriteToFile writes the data as gzipped JSON to a file.
func (w *GzipWriter[T]) WriteToFile(data T, path string) error {
	return writeFile(path, func(f io.Writer) error { return w.Write(data, f) })
}

// ZstdWriter writes data as zstd-compressed JSON.
type ZstdWriter[T any] struct {
	Level zstd.EncoderLevel
}

// NewZstdWriter creates a zstd writer with the default level.
func NewZstdWriter[T any]() *ZstdWriter[T] {
	return &ZstdWriter[T]{Level: zstd.SpeedDefault}
}

// Write writes the data as zstd-compressed JSON to the writer.
func (w *ZstdWriter[T]) Write(data T, writer io.Writer) error {
	enc, err := zstd.NewWriter(writer, zstd.WithEncoderLevel(w.Level))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	if err := json.NewEncoder(enc).Encode(data); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return enc.Close()
}

// WriteToFile writes the data as zstd-compressed JSON to a file.
func (w *ZstdWriter[T]) WriteToFile(data T, path string) error {
	return writeFile(path, func(f io.Writer) error { return w.Write(data, f) })
}

// YAMLWriter writes data as YAML.
type YAMLWriter[T any] struct {
	// Indent is the number of spaces per nesting level.
	Indent int
}

// NewYAMLWriter creates a YAML writer indenting by two spaces.
func NewYAMLWriter[T any]() *YAMLWriter[T] {
	return &YAMLWriter[T]{Indent: 2}
}

// Write writes the data as YAML to the writer.
func (w *YAMLWriter[T]) Write(data T, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(w.Indent)
	if err := encoder.Encode(data); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	return encoder.Close()
}

// WriteToFile writes the data as YAML to a file.
func (w *YAMLWriter[T]) WriteToFile(data T, path string) error {
	return writeFile(path, func(f io.Writer) error { return w.Write(data, f) })
}

// ReadGzipJSON decodes gzipped JSON written by GzipWriter.
func ReadGzipJSON[T any](reader io.Reader) (T, error) {
	var out T
	gzReader, err := gzip.NewReader(reader)
	if err != nil {
		return out, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gzReader.Close()

	if err := json.NewDecoder(gzReader).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}

// ReadZstdJSON decodes zstd-compressed JSON written by ZstdWriter.
func ReadZstdJSON[T any](reader io.Reader) (T, error) {
	var out T
	dec, err := zstd.NewReader(reader)
	if err != nil {
		return out, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode data: %w", err)
	}
	return out, nil
}
