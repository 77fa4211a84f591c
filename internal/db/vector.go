package db

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Vector is an embedding column.
//
// Values are stored in pgvector text form ("[0.1,0.2,...]"), which lets the same
// model live in a native vector(N) column on postgres and a plain text column on
// mysql/sqlite.
type Vector struct {
	pgvector.Vector
}

// NewVector wraps a raw embedding.
func NewVector(v []float32) Vector {
	return Vector{Vector: pgvector.NewVector(v)}
}

// GormDBDataType picks the column type per dialect.
// The dimension comes from the `dim` tag setting, e.g. gorm:"dim:512".
func (Vector) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		if dim, ok := field.TagSettings["DIM"]; ok {
			return "vector(" + dim + ")"
		}
		return "vector"
	case "mysql":
		return "longtext"
	default:
		return "text"
	}
}
