package query

// Re-export read models from readmodel package for handler callers
import "github.com/example/shopspot/internal/readmodel"

type ProductReadModel = readmodel.ProductReadModel
type ProductListReadModel = readmodel.ProductListReadModel
type FiltersReadModel = readmodel.FiltersReadModel
type FacetsReadModel = readmodel.FacetsReadModel
