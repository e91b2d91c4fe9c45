package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tweetbook/internal/models"
	"tweetbook/internal/query"
	"tweetbook/internal/repository"
)

type memUser struct {
	account   models.MinAccount
	hash      string
	ips       []string
	posts     []string
	followers []string
	following []string
}

type memPost struct {
	id        string
	text      string
	authorID  string
	likes     []string
	createdAt time.Time
	updatedAt time.Time
	seq       int
}

// memStore keeps accounts and posts in maps and implements both
// repositories plus the unit of work. A failed unit of work restores the
// snapshot taken when it began.
type memStore struct {
	users map[string]*memUser
	posts map[string]*memPost
	seq   int

	// failUpdateFor makes Update fail for that account id.
	failUpdateFor string
}

var errInjected = errors.New("injected store failure")

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*memUser{},
		posts: map[string]*memPost{},
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(s repository.Stores) error) error {
	users, posts := m.snapshot()
	if err := fn(repository.Stores{User: m, Post: memPosts{m}}); err != nil {
		m.users, m.posts = users, posts
		return err
	}
	return nil
}

func (m *memStore) snapshot() (map[string]*memUser, map[string]*memPost) {
	users := make(map[string]*memUser, len(m.users))
	for id, u := range m.users {
		c := *u
		c.ips = slices.Clone(u.ips)
		c.posts = slices.Clone(u.posts)
		c.followers = slices.Clone(u.followers)
		c.following = slices.Clone(u.following)
		users[id] = &c
	}
	posts := make(map[string]*memPost, len(m.posts))
	for id, p := range m.posts {
		c := *p
		c.likes = slices.Clone(p.likes)
		posts[id] = &c
	}
	return users, posts
}

func (m *memStore) minAccounts(ids []string) models.AccountList {
	list := models.AccountList{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			list = append(list, u.account)
		}
	}
	return list
}

func (m *memStore) view(p *memPost) models.PostView {
	v := models.PostView{
		PostID:    p.id,
		Text:      p.text,
		AuthorID:  p.authorID,
		Likes:     m.minAccounts(p.likes),
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}
	if u, ok := m.users[p.authorID]; ok {
		v.Owner = &models.AccountRef{MinAccount: u.account}
	}
	return v
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotExists
	}
	account := &models.Account{
		MinAccount: u.account,
		Posts:      models.PostList{},
		Followers:  m.minAccounts(u.followers),
		Following:  m.minAccounts(u.following),
	}
	for _, pid := range u.posts {
		if p, ok := m.posts[pid]; ok {
			account.Posts = append(account.Posts, m.view(p))
		}
	}
	return account, nil
}

func (m *memStore) GetMinByID(ctx context.Context, id string) (*models.MinAccount, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotExists
	}
	account := u.account
	return &account, nil
}

func (m *memStore) GetByQuery(ctx context.Context, pred query.Predicate) ([]models.MinAccount, error) {
	var out []models.MinAccount
	for _, u := range m.users {
		var have string
		switch pred.Field {
		case "user_id":
			have = u.account.UserID
		case "email":
			have = u.account.Email
		case "username":
			have = u.account.Username
		default:
			return nil, fmt.Errorf("unsupported field %q", pred.Field)
		}
		if have == pred.Value {
			out = append(out, u.account)
		}
	}
	return out, nil
}

func (m *memStore) Search(ctx context.Context, term string) ([]models.MinAccount, error) {
	out := []models.MinAccount{}
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.account.Username), strings.ToLower(term)) {
			out = append(out, u.account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memStore) credentials(u *memUser) *models.Credentials {
	return &models.Credentials{
		UserID:       u.account.UserID,
		Email:        u.account.Email,
		Username:     u.account.Username,
		PasswordHash: u.hash,
		ActiveIPs:    slices.Clone(u.ips),
		ProfileImg:   u.account.ProfileImgURL,
	}
}

func (m *memStore) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	for _, u := range m.users {
		if u.account.Email == email {
			return m.credentials(u), nil
		}
	}
	return nil, models.ErrUserNotExists
}

func (m *memStore) GetCredentialsByID(ctx context.Context, id string) (*models.Credentials, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotExists
	}
	return m.credentials(u), nil
}

func (m *memStore) Add(ctx context.Context, in models.SignupInput) (*models.MinAccount, error) {
	for _, u := range m.users {
		if u.account.Email == in.Email {
			return nil, models.ErrUserAlreadyExists
		}
	}
	u := &memUser{
		account: models.MinAccount{
			UserID:   uuid.New().String(),
			Email:    in.Email,
			Username: in.Username,
		},
		hash: "hashed:" + in.Password,
	}
	if in.Address != "" {
		u.ips = []string{in.Address}
	}
	m.users[u.account.UserID] = u
	account := u.account
	return &account, nil
}

func (m *memStore) Update(ctx context.Context, id string, upd *query.Update) (*models.MinAccount, error) {
	if id == m.failUpdateFor {
		return nil, errInjected
	}
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotExists
	}
	for _, op := range upd.Ops() {
		if op.Kind == query.OpSet {
			v := op.Value.(string)
			switch op.Field {
			case "bio":
				u.account.Bio = &v
			case "profile_img_url":
				u.account.ProfileImgURL = v
			default:
				return nil, fmt.Errorf("unsupported field %q", op.Field)
			}
			continue
		}

		var arr *[]string
		switch op.Field {
		case "active_ips":
			arr = &u.ips
		case "posts":
			arr = &u.posts
		case "followers":
			arr = &u.followers
		case "following":
			arr = &u.following
		default:
			return nil, fmt.Errorf("unsupported field %q", op.Field)
		}
		*arr = applyArrayOp(*arr, op)
	}
	account := u.account
	return &account, nil
}

func applyArrayOp(arr []string, op query.Op) []string {
	v := op.Value.(string)
	switch op.Kind {
	case query.OpAddToSet:
		if slices.Contains(arr, v) {
			return arr
		}
		return append(arr, v)
	case query.OpPull:
		return slices.DeleteFunc(arr, func(s string) bool { return s == v })
	case query.OpPush:
		return append(arr, v)
	}
	return arr
}

func (m *memStore) sortedPosts(keep func(*memPost) bool, page repository.Page) []models.PostView {
	var matched []*memPost
	for _, p := range m.posts {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	if page.Offset > 0 {
		if page.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[page.Offset:]
		}
	}
	if page.Limit > 0 && len(matched) > page.Limit {
		matched = matched[:page.Limit]
	}

	out := []models.PostView{}
	for _, p := range matched {
		out = append(out, m.view(p))
	}
	return out
}

func (m *memStore) GetAll(ctx context.Context, page repository.Page) ([]models.PostView, error) {
	return m.sortedPosts(func(*memPost) bool { return true }, page), nil
}

func (m *memStore) postGetByQuery(pred query.Predicate, page repository.Page) []models.PostView {
	return m.sortedPosts(func(p *memPost) bool { return pred.Field == "author_id" && p.authorID == pred.Value }, page)
}

func (m *memStore) post(id string) (*models.PostView, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, models.ErrPostNotExists
	}
	v := m.view(p)
	return &v, nil
}

func (m *memStore) Insert(ctx context.Context, text, authorID string) (*models.PostView, error) {
	if _, ok := m.users[authorID]; !ok {
		return nil, models.ErrUserNotExists
	}
	m.seq++
	p := &memPost{
		id:        uuid.New().String(),
		text:      text,
		authorID:  authorID,
		createdAt: time.Now().UTC(),
		seq:       m.seq,
	}
	p.updatedAt = p.createdAt
	m.posts[p.id] = p
	return &models.PostView{
		PostID:    p.id,
		Text:      p.text,
		AuthorID:  p.authorID,
		Likes:     models.AccountList{},
		CreatedAt: p.createdAt,
		UpdatedAt: p.updatedAt,
	}, nil
}

func (m *memStore) Like(ctx context.Context, postID, accountID string) error {
	p, ok := m.posts[postID]
	if !ok {
		return models.ErrPostNotExists
	}
	p.likes = applyArrayOp(p.likes, query.Op{Kind: query.OpAddToSet, Field: "likes", Value: accountID})
	p.updatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) Unlike(ctx context.Context, postID, accountID string) error {
	p, ok := m.posts[postID]
	if !ok {
		return models.ErrPostNotExists
	}
	p.likes = applyArrayOp(p.likes, query.Op{Kind: query.OpPull, Field: "likes", Value: accountID})
	p.updatedAt = time.Now().UTC()
	return nil
}

func (m *memStore) Delete(ctx context.Context, postID, requesterID string) error {
	p, ok := m.posts[postID]
	if !ok {
		return models.ErrPostNotExists
	}
	if p.authorID != requesterID {
		return models.ErrUnauthorized
	}
	delete(m.posts, postID)
	return nil
}

// memPosts adapts the post side of memStore, whose GetByID and GetByQuery
// names collide with the account side.
type memPosts struct {
	*memStore
}

func (p memPosts) GetByID(ctx context.Context, postID string) (*models.PostView, error) {
	return p.post(postID)
}

func (p memPosts) GetByQuery(ctx context.Context, pred query.Predicate, page repository.Page) ([]models.PostView, error) {
	return p.postGetByQuery(pred, page), nil
}
