package models

import (
	"github.com/google/uuid"

	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

func ToUserDomain(m *UserModel) *pkgmodels.User {
	if m == nil {
		return nil
	}
	return &pkgmodels.User{
		ID:                        m.ID,
		Email:                     m.Email,
		Kind:                      pkgmodels.UserKind(m.Kind),
		DisplayName:               m.DisplayName,
		IsSystem:                  m.IsSystem,
		FollowersCount:            m.FollowersCount,
		FollowingCount:            m.FollowingCount,
		PioneerKarma:              m.PioneerKarma,
		BuilderKarma:              m.BuilderKarma,
		CriticKarma:               m.CriticKarma,
		EpistemicScore:            m.EpistemicScore,
		NotificationsLastViewedAt: m.NotificationsLastViewedAt,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
}

func FromUserDomain(u *pkgmodels.User) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:                        u.ID,
		Email:                     u.Email,
		Kind:                      string(u.Kind),
		DisplayName:               u.DisplayName,
		IsSystem:                  u.IsSystem,
		FollowersCount:            u.FollowersCount,
		FollowingCount:            u.FollowingCount,
		PioneerKarma:              u.PioneerKarma,
		BuilderKarma:              u.BuilderKarma,
		CriticKarma:               u.CriticKarma,
		EpistemicScore:            u.EpistemicScore,
		NotificationsLastViewedAt: u.NotificationsLastViewedAt,
		CreatedAt:                 u.CreatedAt,
		UpdatedAt:                 u.UpdatedAt,
	}
}

func ToPostDomain(m *PostModel) *pkgmodels.Post {
	if m == nil {
		return nil
	}
	return &pkgmodels.Post{
		ID:                  m.ID.String(),
		AuthorID:            m.AuthorID,
		Title:               m.Title,
		Content:             m.Content,
		AnalysisContentHash: m.AnalysisContentHash,
		Score:               m.Score,
		VoteCount:           m.VoteCount,
		ReplyCount:          m.ReplyCount,
		DeletedAt:           m.DeletedAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func FromPostDomain(p *pkgmodels.Post) *PostModel {
	if p == nil {
		return nil
	}
	m := &PostModel{
		AuthorID:            p.AuthorID,
		Title:               p.Title,
		Content:             p.Content,
		AnalysisContentHash: p.AnalysisContentHash,
		Score:               p.Score,
		VoteCount:           p.VoteCount,
		ReplyCount:          p.ReplyCount,
		DeletedAt:           p.DeletedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.ID != "" {
		m.ID = uuid.MustParse(p.ID)
	}
	return m
}

func ToReplyDomain(m *ReplyModel) *pkgmodels.Reply {
	if m == nil {
		return nil
	}
	r := &pkgmodels.Reply{
		ID:         m.ID.String(),
		PostID:     m.PostID.String(),
		AuthorID:   m.AuthorID,
		Depth:      m.Depth,
		Path:       m.Path,
		Content:    m.Content,
		ReplyCount: m.ReplyCount,
		Score:      m.Score,
		VoteCount:  m.VoteCount,
		DeletedAt:  m.DeletedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ParentReplyID != nil {
		s := m.ParentReplyID.String()
		r.ParentReplyID = &s
	}
	if m.QuotedText != nil {
		r.QuotedText = m.QuotedText
	}
	if m.QuotedSourceType != nil {
		t := pkgmodels.QuotedSourceType(*m.QuotedSourceType)
		r.QuotedSourceType = &t
	}
	if m.QuotedSourceID != nil {
		s := m.QuotedSourceID.String()
		r.QuotedSourceID = &s
	}
	return r
}

func FromReplyDomain(r *pkgmodels.Reply) *ReplyModel {
	if r == nil {
		return nil
	}
	m := &ReplyModel{
		AuthorID:   r.AuthorID,
		Depth:      r.Depth,
		Path:       r.Path,
		Content:    r.Content,
		QuotedText: r.QuotedText,
		ReplyCount: r.ReplyCount,
		Score:      r.Score,
		VoteCount:  r.VoteCount,
		DeletedAt:  r.DeletedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ID != "" {
		m.ID = uuid.MustParse(r.ID)
	}
	if r.PostID != "" {
		m.PostID = uuid.MustParse(r.PostID)
	}
	if r.ParentReplyID != nil {
		id := uuid.MustParse(*r.ParentReplyID)
		m.ParentReplyID = &id
	}
	if r.QuotedSourceType != nil {
		s := string(*r.QuotedSourceType)
		m.QuotedSourceType = &s
	}
	if r.QuotedSourceID != nil {
		id := uuid.MustParse(*r.QuotedSourceID)
		m.QuotedSourceID = &id
	}
	return m
}

func ToVoteDomain(m *VoteModel) *pkgmodels.Vote {
	if m == nil {
		return nil
	}
	return &pkgmodels.Vote{
		ID:         m.ID.String(),
		UserID:     m.UserID,
		TargetType: pkgmodels.VoteTargetType(m.TargetType),
		TargetID:   m.TargetID.String(),
		Value:      pkgmodels.VoteValue(m.Value),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromVoteDomain(v *pkgmodels.Vote) *VoteModel {
	if v == nil {
		return nil
	}
	m := &VoteModel{
		UserID:     v.UserID,
		TargetType: string(v.TargetType),
		Value:      int16(v.Value),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
	if v.ID != "" {
		m.ID = uuid.MustParse(v.ID)
	}
	if v.TargetID != "" {
		m.TargetID = uuid.MustParse(v.TargetID)
	}
	return m
}

func ToFollowDomain(m *FollowModel) *pkgmodels.Follow {
	if m == nil {
		return nil
	}
	return &pkgmodels.Follow{
		FollowerID:  m.FollowerID,
		FollowingID: m.FollowingID,
		CreatedAt:   m.CreatedAt,
	}
}

func FromFollowDomain(f *pkgmodels.Follow) *FollowModel {
	if f == nil {
		return nil
	}
	return &FollowModel{
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   f.CreatedAt,
	}
}

func ToNotificationDomain(m *NotificationModel) *pkgmodels.Notification {
	if m == nil {
		return nil
	}
	n := &pkgmodels.Notification{
		ID:                m.ID.String(),
		UserID:            m.UserID,
		TargetType:        m.TargetType,
		TargetID:          m.TargetID.String(),
		Category:          pkgmodels.NotificationCategory(m.Category),
		ReplyCount:        m.ReplyCount,
		LastReplyAuthorID: m.LastReplyAuthorID,
		IsRead:            m.IsRead,
		Payload:           map[string]interface{}(m.Payload),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.EpistemicType != nil {
		t := pkgmodels.EpistemicNotificationType(*m.EpistemicType)
		n.EpistemicType = &t
	}
	return n
}

func FromNotificationDomain(n *pkgmodels.Notification) *NotificationModel {
	if n == nil {
		return nil
	}
	m := &NotificationModel{
		UserID:            n.UserID,
		TargetType:        n.TargetType,
		Category:          string(n.Category),
		ReplyCount:        n.ReplyCount,
		LastReplyAuthorID: n.LastReplyAuthorID,
		IsRead:            n.IsRead,
		Payload:           JSONBMap(n.Payload),
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
	}
	if n.ID != "" {
		m.ID = uuid.MustParse(n.ID)
	}
	if n.TargetID != "" {
		m.TargetID = uuid.MustParse(n.TargetID)
	}
	if n.EpistemicType != nil {
		t := string(*n.EpistemicType)
		m.EpistemicType = &t
	}
	return m
}
