package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-nightlife-client/model"
)

// vibeWindow is how far back check-ins count towards a venue's current vibe.
const vibeWindow = 2 * time.Hour

// dataStore keeps every resource except users and tokens in memory.
type dataStore struct {
	lock sync.RWMutex

	nextID         int64
	venues         map[int64]*model.Venue
	checkins       map[int64]*model.CheckIn
	ratings        map[int64]*model.Rating
	friendRequests map[int64]*model.FriendRequest
	pings          map[int64]*model.Ping
	notifications  map[int64][]*model.Notification // keyed by recipient
}

func newDataStore() *dataStore {
	return &dataStore{
		venues:         make(map[int64]*model.Venue),
		checkins:       make(map[int64]*model.CheckIn),
		ratings:        make(map[int64]*model.Rating),
		friendRequests: make(map[int64]*model.FriendRequest),
		pings:          make(map[int64]*model.Ping),
		notifications:  make(map[int64][]*model.Notification),
	}
}

var seedVenues = []model.Venue{
	{Name: "Fabric", Address: "77a Charterhouse St, London", Category: "club", Latitude: 51.5196, Longitude: -0.1025},
	{Name: "The Jazz Cafe", Address: "5 Parkway, London", Category: "live music", Latitude: 51.5390, Longitude: -0.1445},
	{Name: "Nightjar", Address: "129 City Rd, London", Category: "cocktail bar", Latitude: 51.5265, Longitude: -0.0879},
	{Name: "Printworks", Address: "Surrey Quays Rd, London", Category: "club", Latitude: 51.4977, Longitude: -0.0459},
}

func (d *dataStore) seed() {
	for _, v := range seedVenues {
		d.addVenue(v)
	}
}

func (d *dataStore) id() int64 {
	d.nextID++
	return d.nextID
}

func (d *dataStore) addVenue(v model.Venue) *model.Venue {
	d.lock.Lock()
	defer d.lock.Unlock()
	v.ID = d.id()
	d.venues[v.ID] = &v
	out := v
	return &out
}

func (d *dataStore) listVenues(search string) []model.Venue {
	d.lock.RLock()
	defer d.lock.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Venue, 0, len(d.venues))
	for _, v := range d.venues {
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) && !strings.Contains(strings.ToLower(v.Category), search) {
			continue
		}
		out = append(out, d.venueView(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *dataStore) venue(id int64) (model.Venue, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	v, ok := d.venues[id]
	if !ok {
		return model.Venue{}, false
	}
	return d.venueView(v), true
}

// venueView fills the derived counters. Callers hold the lock.
func (d *dataStore) venueView(v *model.Venue) model.Venue {
	out := *v
	total, scores := 0, 0
	for _, r := range d.ratings {
		if r.VenueID == v.ID {
			total++
			scores += r.Score
		}
	}
	if total > 0 {
		out.Rating = float64(scores) / float64(total)
	}
	for _, c := range d.checkins {
		if c.VenueID == v.ID {
			out.CheckinCount++
		}
	}
	return out
}

func (d *dataStore) currentVibe(venueID int64, now time.Time) model.Vibe {
	d.lock.RLock()
	defer d.lock.RUnlock()

	recent := 0
	for _, c := range d.checkins {
		if c.VenueID == venueID && now.Sub(c.CreatedAt) <= vibeWindow {
			recent++
		}
	}
	level := model.VibeQuiet
	switch {
	case recent >= 10:
		level = model.VibePacked
	case recent >= 3:
		level = model.VibeLively
	}
	return model.Vibe{VenueID: venueID, Level: level, Checkins: recent, UpdatedAt: now}
}

func (d *dataStore) addCheckIn(c model.CheckIn) model.CheckIn {
	d.lock.Lock()
	defer d.lock.Unlock()
	c.ID = d.id()
	d.checkins[c.ID] = &c
	return c
}

func (d *dataStore) checkIn(id int64) (model.CheckIn, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	c, ok := d.checkins[id]
	if !ok {
		return model.CheckIn{}, false
	}
	return *c, true
}

func (d *dataStore) updateCheckIn(c model.CheckIn) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.checkins[c.ID] = &c
}

func (d *dataStore) deleteCheckIn(id int64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.checkins, id)
}

func (d *dataStore) listCheckIns(match func(*model.CheckIn) bool) []model.CheckIn {
	d.lock.RLock()
	defer d.lock.RUnlock()
	out := make([]model.CheckIn, 0)
	for _, c := range d.checkins {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *dataStore) addRating(r model.Rating) model.Rating {
	d.lock.Lock()
	defer d.lock.Unlock()
	r.ID = d.id()
	d.ratings[r.ID] = &r
	return r
}

func (d *dataStore) rating(id int64) (model.Rating, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	r, ok := d.ratings[id]
	if !ok {
		return model.Rating{}, false
	}
	return *r, true
}

func (d *dataStore) deleteRating(id int64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.ratings, id)
}

func (d *dataStore) listRatings(match func(*model.Rating) bool) []model.Rating {
	d.lock.RLock()
	defer d.lock.RUnlock()
	out := make([]model.Rating, 0)
	for _, r := range d.ratings {
		if match(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *dataStore) addFriendRequest(fr model.FriendRequest) (model.FriendRequest, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	for _, existing := range d.friendRequests {
		if existing.Status == model.FriendRequestDeclined {
			continue
		}
		if (existing.FromUser == fr.FromUser && existing.ToUser == fr.ToUser) ||
			(existing.FromUser == fr.ToUser && existing.ToUser == fr.FromUser) {
			return *existing, false
		}
	}
	fr.ID = d.id()
	d.friendRequests[fr.ID] = &fr
	return fr, true
}

func (d *dataStore) friendRequest(id int64) (model.FriendRequest, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	fr, ok := d.friendRequests[id]
	if !ok {
		return model.FriendRequest{}, false
	}
	return *fr, true
}

func (d *dataStore) setFriendRequestStatus(id int64, status model.FriendRequestStatus) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if fr, ok := d.friendRequests[id]; ok {
		fr.Status = status
	}
}

func (d *dataStore) listFriendRequests(match func(*model.FriendRequest) bool) []model.FriendRequest {
	d.lock.RLock()
	defer d.lock.RUnlock()
	out := make([]model.FriendRequest, 0)
	for _, fr := range d.friendRequests {
		if match(fr) {
			out = append(out, *fr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// friendIDs returns the users userID has an accepted request with.
func (d *dataStore) friendIDs(userID int64) []int64 {
	var ids []int64
	for _, fr := range d.listFriendRequests(func(fr *model.FriendRequest) bool {
		return fr.Status == model.FriendRequestAccepted && (fr.FromUser == userID || fr.ToUser == userID)
	}) {
		if fr.FromUser == userID {
			ids = append(ids, fr.ToUser)
		} else {
			ids = append(ids, fr.FromUser)
		}
	}
	return ids
}

// unfriend drops the accepted request between two users so either can send a
// new one. It reports whether they were friends.
func (d *dataStore) unfriend(userID, friendID int64) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	found := false
	for id, fr := range d.friendRequests {
		if fr.Status != model.FriendRequestAccepted {
			continue
		}
		if (fr.FromUser == userID && fr.ToUser == friendID) || (fr.FromUser == friendID && fr.ToUser == userID) {
			delete(d.friendRequests, id)
			found = true
		}
	}
	return found
}

func (d *dataStore) addPing(p model.Ping) model.Ping {
	d.lock.Lock()
	defer d.lock.Unlock()
	p.ID = d.id()
	d.pings[p.ID] = &p
	return p
}

func (d *dataStore) listPings(userID int64) []model.Ping {
	d.lock.RLock()
	defer d.lock.RUnlock()
	out := make([]model.Ping, 0)
	for _, p := range d.pings {
		if p.FromUser == userID || p.ToUser == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (d *dataStore) ping(id int64) (model.Ping, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	p, ok := d.pings[id]
	if !ok {
		return model.Ping{}, false
	}
	return *p, true
}

func (d *dataStore) deletePing(id int64) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.pings, id)
}

func (d *dataStore) notify(userID int64, kind, message string, at time.Time) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.notifications[userID] = append(d.notifications[userID], &model.Notification{
		ID:        d.id(),
		Type:      kind,
		Message:   message,
		CreatedAt: at,
	})
}

func (d *dataStore) listNotifications(userID int64) []model.Notification {
	d.lock.RLock()
	defer d.lock.RUnlock()
	list := d.notifications[userID]
	out := make([]model.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, *list[i])
	}
	return out
}

// markRead marks one notification, or all of them when id is 0. It reports
// whether anything matched.
func (d *dataStore) markRead(userID, id int64) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	found := false
	for _, n := range d.notifications[userID] {
		if id == 0 || n.ID == id {
			n.Read = true
			found = true
		}
	}
	return found
}
