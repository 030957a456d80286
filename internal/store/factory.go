package store

import "gorm.io/gorm"

// Stores hands out the gorm-backed stores sharing one connection pool.
type Stores struct {
	db *gorm.DB
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Reports() ReportStore {
	return newReportStore(s.db)
}

func (s *Stores) Operators() OperatorDirectory {
	return newOperatorDirectory(s.db)
}

func (s *Stores) Notifications() NotificationStore {
	return newNotificationStore(s.db)
}

func (s *Stores) Comments() CommentStore {
	return newCommentStore(s.db)
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) Categories() CategoryStore {
	return newCategoryStore(s.db)
}

func (s *Stores) RefreshTokens() RefreshTokenStore {
	return newRefreshTokenStore(s.db)
}
