package exporttidy

import (
	"github.com/bianoble/export-tidy/internal/enrich"
	"github.com/bianoble/export-tidy/internal/pipeline"
)

// Type aliases re-export internal types as the public API. Users import
// "github.com/bianoble/export-tidy/pkg/exporttidy" and use
// exporttidy.Result, exporttidy.EntryError, etc.

type Result = pipeline.Result
type EntryError = pipeline.EntryError
type NameTruncation = pipeline.NameTruncation
type Collision = pipeline.Collision

type Provider = enrich.Provider
type Metadata = enrich.Metadata
type RetryPolicy = enrich.RetryPolicy
