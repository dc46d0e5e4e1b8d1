// Package recorder persists touch samples as a multi-document YAML stream.
//
// Each document holds one sample:
//
//	seq: 3
//	touch:
//	  device: 0
//	  id: 1
//	  x: 0.5
//	  ...
//	  touch: move
package recorder

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/phinze/touchdeck/internal/contact"
	"github.com/phinze/touchdeck/internal/input"
)

// Record is one document of a recording.
type Record struct {
	Seq   uint64          `yaml:"seq"`
	Touch input.TouchArgs `yaml:"touch"`
}

// Writer appends samples to a YAML stream.
type Writer struct {
	enc *yaml.Encoder
	seq uint64
}

// NewWriter creates a writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Writer{enc: enc}
}

// Write appends a sample.
func (w *Writer) Write(args input.TouchArgs) error {
	w.seq++
	if err := w.enc.Encode(Record{Seq: w.seq, Touch: args}); err != nil {
		return fmt.Errorf("encoding sample %d: %w", w.seq, err)
	}
	return nil
}

// Count returns the number of samples written.
func (w *Writer) Count() uint64 {
	return w.seq
}

// Close flushes the stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.enc.Close()
}

// Reader decodes samples from a YAML stream.
type Reader struct {
	dec *yaml.Decoder
}

// NewReader creates a reader that decodes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: yaml.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}

// ReadAll returns every record in the stream.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Stats summarizes a replayed recording.
type Stats struct {
	Samples int
	// Contacts counts accepted Start samples. Contact ids are reused once a
	// contact ends, so one id can stand for several contacts.
	Contacts int
	Problems int
	Active   int
}

// Replay prints every record to out and checks each sample against its
// contact's lifecycle. With strict set the first problem is returned.
//
// A sample that fails TouchArgs.Validate still advances its contact's
// lifecycle, so one bad Start is reported once rather than again for each
// later Move and End of that contact.
func Replay(r *Reader, out io.Writer, strict bool) (Stats, error) {
	var stats Stats
	tracker := contact.NewTracker()

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Samples++

		invalid := rec.Touch.Validate()
		lifecycle := tracker.Observe(rec.Touch)
		if lifecycle == nil && rec.Touch.Touch == input.TouchStart {
			stats.Contacts++
		}

		if problem := combine(invalid, lifecycle); problem != nil {
			stats.Problems++
			if strict {
				return stats, fmt.Errorf("record %d: %w", rec.Seq, problem)
			}
			fmt.Fprintf(out, "%6d  %s  !! %v\n", rec.Seq, rec.Touch, problem)
			continue
		}
		fmt.Fprintf(out, "%6d  %s\n", rec.Seq, rec.Touch)
	}
	stats.Active = tracker.Len()
	return stats, nil
}

// combine joins the validation and lifecycle problems of one sample on a
// single line.
func combine(invalid, lifecycle error) error {
	switch {
	case invalid == nil:
		return lifecycle
	case lifecycle == nil:
		return invalid
	}
	return fmt.Errorf("%w; %w", invalid, lifecycle)
}
