package service

import (
	"fmt"

	"village-go/internal/model"
	"village-go/internal/repository"
)

// DiaryService 定义了私人日记的业务操作。日记严格属于作者本人，
// 所有读写都带所有权检查。
type DiaryService interface {
	Create(userID uint, title, content, mood string) (*model.DiaryEntry, error)
	List(userID uint) ([]model.DiaryEntry, error)
	Get(userID, entryID uint) (*model.DiaryEntry, error)
	Update(userID, entryID uint, title, content, mood string) (*model.DiaryEntry, error)
	Delete(userID, entryID uint) error
}

type diaryService struct {
	diaryRepo repository.DiaryRepository
}

// NewDiaryService 创建一个新的 DiaryService 实例。
func NewDiaryService(diaryRepo repository.DiaryRepository) DiaryService {
	return &diaryService{diaryRepo: diaryRepo}
}

// Create 创建一篇日记。
func (s *diaryService) Create(userID uint, title, content, mood string) (*model.DiaryEntry, error) {
	entry := &model.DiaryEntry{
		UserID:  userID,
		Title:   title,
		Content: content,
		Mood:    mood,
	}
	if err := s.diaryRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}
	return entry, nil
}

// List 返回用户的全部日记，最新的在前。
func (s *diaryService) List(userID uint) ([]model.DiaryEntry, error) {
	return s.diaryRepo.FindByUserID(userID)
}

// Get 返回用户的一篇日记。
func (s *diaryService) Get(userID, entryID uint) (*model.DiaryEntry, error) {
	entry, err := s.diaryRepo.FindByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotOwner
	}
	return entry, nil
}

// Update 更新用户的一篇日记。
func (s *diaryService) Update(userID, entryID uint, title, content, mood string) (*model.DiaryEntry, error) {
	entry, err := s.Get(userID, entryID)
	if err != nil {
		return nil, err
	}
	entry.Title = title
	entry.Content = content
	entry.Mood = mood
	if err := s.diaryRepo.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to update diary entry: %w", err)
	}
	return entry, nil
}

// Delete 删除用户的一篇日记。
func (s *diaryService) Delete(userID, entryID uint) error {
	if _, err := s.Get(userID, entryID); err != nil {
		return err
	}
	return s.diaryRepo.Delete(entryID)
}
