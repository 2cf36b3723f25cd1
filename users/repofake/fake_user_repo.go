package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"

	"github.com/jrsteele09/go-nightlife-client/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int64]*users.User
	emailIds  map[string]int64 // lower cased email to user id
	usernames map[string]int64
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[int64]*users.User),
		emailIds:  make(map[string]int64),
		usernames: make(map[string]int64),
	}
}

// Create assigns the next ID to user and stores a copy of it.
func (ur *FakeUserRepo) Create(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email, username := strings.ToLower(user.Email), strings.ToLower(user.Username)
	if _, ok := ur.emailIds[email]; ok && email != "" {
		return users.ErrUserExists
	}
	if _, ok := ur.usernames[username]; ok && username != "" {
		return users.ErrUserExists
	}

	ur.nextID++
	user.ID = ur.nextID
	stored := *user
	ur.users[user.ID] = &stored
	if email != "" {
		ur.emailIds[email] = user.ID
	}
	if username != "" {
		ur.usernames[username] = user.ID
	}
	return nil
}

// Update replaces the stored profile. Email and username are immutable.
func (ur *FakeUserRepo) Update(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return users.ErrUserNotFound
	}
	stored := *user
	stored.Email = existing.Email
	stored.Username = existing.Username
	ur.users[user.ID] = &stored
	return nil
}

func (ur *FakeUserRepo) GetByID(id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.emailIds[strings.ToLower(email)]
	ur.lock.RUnlock()
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return ur.GetByID(id)
}

func (ur *FakeUserRepo) GetByUsername(username string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.usernames[strings.ToLower(username)]
	ur.lock.RUnlock()
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return ur.GetByID(id)
}

func (ur *FakeUserRepo) List(offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		out := *v
		userList = append(userList, &out)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	if offset >= len(userList) {
		return []*users.User{}, nil
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end], nil
}
