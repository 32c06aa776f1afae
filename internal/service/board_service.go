package service

import (
	"errors"

	"github.com/infolink/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrBoardForbidden = errors.New("not the board author")
)

// CanMutate 判断 actingUserID 是否有权修改 authorID 发布的帖子。
// 当前规则为仅作者本人，管理员没有额外权限。
func CanMutate(actingUserID, authorID uint) bool {
	return actingUserID == authorID
}

// BoardService wraps board related database operations.
type BoardService struct {
	db *gorm.DB
}

// BoardPatch represents the optional fields of a partial update.
// Nil fields are left unchanged.
type BoardPatch struct {
	Title   *string
	Content *string
}

// NewBoardService creates a BoardService instance.
func NewBoardService(gdb *gorm.DB) *BoardService {
	return &BoardService{db: gdb}
}

// Create persists a new board owned by userID.
func (s *BoardService) Create(userID uint, title, content string) (*db.Board, error) {
	board := db.Board{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.db.Create(&board).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&board, board.ID).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// Get fetches a board by id and counts the fetch as one view.
// The increment happens in the same transaction as the lookup, so a
// successful return always reflects exactly one additional view.
func (s *BoardService) Get(id uint) (*db.Board, error) {
	var board db.Board
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&board, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}
		// UpdateColumn 跳过钩子，不会触碰 updated_at
		return tx.Model(&db.Board{}).Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	board.ViewCount++
	return &board, nil
}

// List returns up to limit boards ordered by id descending, starting
// strictly below cursor (cursor == 0 means from the newest). The second
// return value reports whether more boards exist past this page.
//
// 游标即上一页最后一条的 ID：新帖子拿到更大的 ID，只会出现在新的首页，
// 已发出的分页边界不会漂移。limit 由调用方裁剪到合法范围。
func (s *BoardService) List(cursor uint, limit int) ([]db.Board, bool, error) {
	query := s.db.Preload("User").Order("id desc").Limit(limit + 1)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var boards []db.Board
	if err := query.Find(&boards).Error; err != nil {
		return nil, false, err
	}

	// 多取了一条用来判断 has_more
	hasMore := len(boards) > limit
	if hasMore {
		boards = boards[:limit]
	}
	return boards, hasMore, nil
}

// Update applies a partial patch to an existing board. The existence
// check runs before the ownership check, so a missing or deleted board
// yields ErrBoardNotFound for everyone, authors included.
func (s *BoardService) Update(id, actingUserID uint, patch BoardPatch) (*db.Board, error) {
	var existing db.Board
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	if !CanMutate(actingUserID, existing.UserID) {
		return nil, ErrBoardForbidden
	}

	if patch.Title != nil {
		existing.Title = *patch.Title
	}
	if patch.Content != nil {
		existing.Content = *patch.Content
	}
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&existing, existing.ID).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// SoftDelete marks a board as deleted without erasing the row. Same
// guard order as Update: existence first, then ownership.
func (s *BoardService) SoftDelete(id, actingUserID uint) error {
	var existing db.Board
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return err
	}
	if !CanMutate(actingUserID, existing.UserID) {
		return ErrBoardForbidden
	}
	return s.db.Delete(&existing).Error
}
