package catalogdb

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID
	NameEn       string
	NameKo       string
	Description  string
	PriceAmount  int64
	Currency     string
	ThumbnailUrl string
	SellerID     string
	SellerName   string
	Stock        int32
	MaxPerOrder  int32
	Discontinued bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
