package store

import (
	"context"
	"errors"

	"spyserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// roomStore is the GORM-backed RoomStore.
type roomStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRoomStore(db *gorm.DB, logger *zap.Logger) RoomStore {
	return &roomStore{db: db, logger: logger}
}

func (s *roomStore) Create(ctx context.Context, roomID, hostID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room := models.Room{
			ID:     roomID,
			HostID: hostID,
			Status: string(models.StatusWaiting),
		}
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		host := models.Player{RoomID: roomID, UserID: hostID, IsAlive: true}
		return tx.Create(&host).Error
	})
}

// playerRow is the players/users join used to assemble a view.
type playerRow struct {
	UserID   string
	Username string
	Role     string
	IsAlive  bool
}

func (s *roomStore) Get(ctx context.Context, roomID string) (*models.RoomView, error) {
	var room models.Room
	err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, &room)
}

func (s *roomStore) ListOpen(ctx context.Context) ([]*models.RoomView, error) {
	var rooms []models.Room
	err := s.db.WithContext(ctx).
		Where("status != ?", string(models.StatusEnded)).
		Order("created_at").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	views := make([]*models.RoomView, 0, len(rooms))
	for i := range rooms {
		view, err := s.assemble(ctx, &rooms[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *roomStore) assemble(ctx context.Context, room *models.Room) (*models.RoomView, error) {
	var rows []playerRow
	err := s.db.WithContext(ctx).
		Table("players").
		Select("players.user_id, players.role, players.is_alive, users.username").
		Joins("JOIN users ON users.id = players.user_id").
		Where("players.room_id = ?", room.ID).
		Order("players.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	view := &models.RoomView{
		ID:      room.ID,
		HostID:  room.HostID,
		Status:  models.RoomStatus(room.Status),
		Players: make(map[string]*models.PlayerView, len(rows)),
		Order:   make([]string, 0, len(rows)),
		Winners: models.SplitWinners(room.Winners),
	}
	for _, row := range rows {
		view.Players[row.UserID] = &models.PlayerView{
			UserID:   row.UserID,
			Username: row.Username,
			Role:     models.Role(row.Role),
			IsHost:   row.UserID == room.HostID,
			IsAlive:  row.IsAlive,
			VotedBy:  []string{},
		}
		view.Order = append(view.Order, row.UserID)
	}

	var votes []models.Vote
	if err := s.db.WithContext(ctx).Where("room_id = ?", room.ID).Order("id").Find(&votes).Error; err != nil {
		return nil, err
	}
	for _, vote := range votes {
		voter := view.Players[vote.VoterID]
		target := view.Players[vote.TargetID]
		if voter != nil && target != nil {
			voter.VotedFor = vote.TargetID
			target.VotedBy = append(target.VotedBy, vote.VoterID)
		}
	}

	view.Config = roomConfig(room)
	return view, nil
}

// roomConfig builds the config view. A room has a config as soon as any
// config column was ever written; an unset player cap falls back to the
// default.
func roomConfig(room *models.Room) *models.RoomConfig {
	if room.GoodWord == nil && room.BadWord == nil && room.GoodCount == nil &&
		room.BadCount == nil && room.BlankCount == nil && room.MaxPlayers == nil {
		return nil
	}
	config := &models.RoomConfig{MaxPlayers: models.DefaultMaxPlayers}
	if room.GoodWord != nil {
		config.GoodWord = *room.GoodWord
	}
	if room.BadWord != nil {
		config.BadWord = *room.BadWord
	}
	if room.GoodCount != nil {
		config.GoodCount = *room.GoodCount
	}
	if room.BadCount != nil {
		config.BadCount = *room.BadCount
	}
	if room.BlankCount != nil {
		config.BlankCount = *room.BlankCount
	}
	if room.MaxPlayers != nil {
		config.MaxPlayers = *room.MaxPlayers
	}
	return config
}

func (s *roomStore) AddPlayer(ctx context.Context, roomID, userID string) error {
	player := models.Player{RoomID: roomID, UserID: userID, IsAlive: true}
	return s.db.WithContext(ctx).Create(&player).Error
}

func (s *roomStore) RemovePlayer(ctx context.Context, roomID, userID string) error {
	return s.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.Player{}).Error
}

// patchChanges maps the non-nil patch fields onto room columns. Untouched
// fields keep their stored value.
func patchChanges(patch models.ConfigPatch) map[string]interface{} {
	changes := map[string]interface{}{}
	if patch.GoodWord != nil {
		changes["good_word"] = *patch.GoodWord
	}
	if patch.BadWord != nil {
		changes["bad_word"] = *patch.BadWord
	}
	if patch.GoodCount != nil {
		changes["good_count"] = *patch.GoodCount
	}
	if patch.BadCount != nil {
		changes["bad_count"] = *patch.BadCount
	}
	if patch.BlankCount != nil {
		changes["blank_count"] = *patch.BlankCount
	}
	if patch.MaxPlayers != nil {
		changes["max_players"] = *patch.MaxPlayers
	}
	return changes
}

func (s *roomStore) UpdateConfig(ctx context.Context, roomID string, patch models.ConfigPatch) error {
	changes := patchChanges(patch)
	if len(changes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(changes).Error
}

func (s *roomStore) SetRoles(ctx context.Context, roomID string, roles map[string]models.Role) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for userID, role := range roles {
			err := tx.Model(&models.Player{}).
				Where("room_id = ? AND user_id = ?", roomID, userID).
				Update("role", string(role)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *roomStore) SetStatus(ctx context.Context, roomID string, status models.RoomStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", string(status)).Error
}

func (s *roomStore) SetWinners(ctx context.Context, roomID string, winners []models.Role) error {
	return s.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("winners", models.JoinWinners(winners)).Error
}

func (s *roomStore) SetAlive(ctx context.Context, roomID, userID string, alive bool) error {
	return s.db.WithContext(ctx).
		Model(&models.Player{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("is_alive", alive).Error
}

func (s *roomStore) UpsertVote(ctx context.Context, roomID, voterID, targetID string) error {
	vote := models.Vote{RoomID: roomID, VoterID: voterID, TargetID: targetID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "voter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"target_id"}),
		}).
		Create(&vote).Error
}

func (s *roomStore) ClearVotes(ctx context.Context, roomID string) error {
	return s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&models.Vote{}).Error
}

func (s *roomStore) Delete(ctx context.Context, roomID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", roomID).Delete(&models.Room{}).Error
	})
}

func (s *roomStore) Clear(ctx context.Context) error {
	s.logger.Info("clearing all rooms")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Player{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Room{}).Error
	})
}

func (s *roomStore) Transaction(ctx context.Context, fn func(RoomStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&roomStore{db: tx, logger: s.logger})
	})
}
