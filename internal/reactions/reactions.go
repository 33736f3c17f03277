package reactions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hjarnor/hjarnor/internal/models"
)

// BrainInfo identifies a reacting brain in API responses.
type BrainInfo struct {
	ID        uuid.UUID `json:"id"`
	Brainname string    `json:"brainname"`
	Birthdate time.Time `json:"birthdate"`
}

// Lists are the two reactor sets of one brainfart, split by polarity.
type Lists struct {
	BlewMinds     []BrainInfo
	ImplodedMinds []BrainInfo
}

// Toggle records a brain's reaction to a brainfart. A brain holds at most
// one reaction per fart: the first call inserts the row, later calls with
// the opposite polarity flip its flag, repeats with the same polarity are
// no-ops. The upsert targets the (brainfart_id, brain_id) unique index, so
// concurrent identical requests cannot create a second row.
func Toggle(db *gorm.DB, brainfartID, brainID uuid.UUID, explosion bool) error {
	reaction := models.MindReaction{
		BrainfartID: brainfartID,
		BrainID:     brainID,
		Explosion:   explosion,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brainfart_id"}, {Name: "brain_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"explosion": explosion}),
	}).Create(&reaction).Error
}

// ReactorsFor fetches the exploded and imploded reactor lists for a set of
// brainfarts in a single joined query.
func ReactorsFor(db *gorm.DB, brainfartIDs []uuid.UUID) (map[uuid.UUID]Lists, error) {
	result := make(map[uuid.UUID]Lists, len(brainfartIDs))
	if len(brainfartIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		BrainfartID uuid.UUID
		Explosion   bool
		BrainID     uuid.UUID
		Brainname   string
		Birthdate   time.Time
	}
	err := db.Table("mind_reactions").
		Select("mind_reactions.brainfart_id, mind_reactions.explosion, brains.id AS brain_id, brains.brainname, brains.birthdate").
		Joins("JOIN brains ON brains.id = mind_reactions.brain_id").
		Where("mind_reactions.brainfart_id IN ?", brainfartIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		lists := result[row.BrainfartID]
		info := BrainInfo{ID: row.BrainID, Brainname: row.Brainname, Birthdate: row.Birthdate}
		if row.Explosion {
			lists.BlewMinds = append(lists.BlewMinds, info)
		} else {
			lists.ImplodedMinds = append(lists.ImplodedMinds, info)
		}
		result[row.BrainfartID] = lists
	}
	return result, nil
}
