package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brain is a registered user account.
type Brain struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Brainname    string    `gorm:"uniqueIndex;not null"     json:"brainname"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Birthdate    time.Time `gorm:"autoCreateTime"           json:"birthdate"`
}

func (b *Brain) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Brainfart is a short post. Mastermind references the authoring brain.
type Brainfart struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Title      string    `gorm:"not null"                   json:"title"`
	Content    string    `gorm:"not null"                   json:"content"`
	Birthdate  time.Time `gorm:"autoCreateTime;index"       json:"birthdate"`
	Mastermind uuid.UUID `gorm:"type:uuid;index;not null"   json:"mastermind"`
}

func (b *Brainfart) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// MindReaction holds one brain's reaction to one brainfart. Explosion=true
// means the fart blew the brain's mind, false means it imploded. The
// composite unique index makes concurrent identical requests collapse into
// a single row.
type MindReaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	BrainfartID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_fart_brain;not null" json:"brainfart_id"`
	BrainID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_fart_brain;not null" json:"brain_id"`
	Explosion   bool      `gorm:"not null"                                      json:"explosion"`
}

func (r *MindReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
