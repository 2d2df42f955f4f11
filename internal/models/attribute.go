package models

import "time"

// Renk, ebat ve minder tanımları katalog ekranlarından yönetilir.
// Satış satırları bu kayıtlara ID ile referans verir.

type Color struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Dimension struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"` // ör: "160x200"
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cushion struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
