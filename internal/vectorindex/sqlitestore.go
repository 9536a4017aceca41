package vectorindex

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "modernc.org/sqlite"
)

// writeVectors creates a fresh sqlite database at path containing one BLOB
// row per vector, in order (row i == vectors[i]). Any existing file at
// path is removed first; the caller is expected to write to a temp path
// and rename into place for atomicity (see build.go).
func writeVectors(path string, vectors [][]float32) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("vectorindex: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE vectors (row_index INTEGER PRIMARY KEY, embedding BLOB NOT NULL)`); err != nil {
		return fmt.Errorf("vectorindex: create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("vectorindex: begin tx: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO vectors (row_index, embedding) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("vectorindex: prepare insert: %w", err)
	}
	for i, v := range vectors {
		if _, err := stmt.Exec(i, encodeFloat32(v)); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("vectorindex: insert row %d: %w", i, err)
		}
	}
	stmt.Close()
	return tx.Commit()
}

// readVectors loads every row of the vectors table, ordered by row_index,
// decoding each BLOB back into a float32 slice.
func readVectors(path string) ([][]float32, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT embedding FROM vectors ORDER BY row_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: query vectors: %w", err)
	}
	defer rows.Close()

	var out [][]float32
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("vectorindex: scan row: %w", err)
		}
		vec, err := decodeFloat32(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, rows.Err()
}

// encodeFloat32 serializes a vector as little-endian float32 bytes, the
// same wire format internal/store/vec_compat.go's decodeFloat32 consumes.
func encodeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeFloat32 is the inverse of encodeFloat32.
func decodeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("vectorindex: blob length %d not a multiple of 4", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out, nil
}
