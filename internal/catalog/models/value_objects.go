package models

type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

func (s CategoryStatus) IsValid() bool {
	return s == CategoryStatusActive || s == CategoryStatusInactive
}

func (s CategoryStatus) String() string {
	return string(s)
}

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) IsValid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

func (s ProductStatus) String() string {
	return string(s)
}
