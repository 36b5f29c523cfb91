// Package jsondb implements the storage interface on top of a single JSON
// file. All records live in an in-memory cache which is flushed to disk on
// Close. It is suitable for development and tests, not for large datasets.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/linkboard/internal/models"
)

// JSONDB is a file-backed implementation of the application storage.
type JSONDB struct {
	fileName string
	mu       sync.Mutex
	Cache    CacheStruct
}

// CacheStruct is the serialized shape of the database file.
type CacheStruct struct {
	Users         map[string]*models.User
	UsernameToID  map[string]string
	Links         map[string]*models.ShortLink
	ShortToLinkID map[string]string
}

// NewCache returns an empty cache with all maps allocated.
func NewCache() CacheStruct {
	return CacheStruct{
		Users:         map[string]*models.User{},
		UsernameToID:  map[string]string{},
		Links:         map[string]*models.ShortLink{},
		ShortToLinkID: map[string]string{},
	}
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	emptyCache, err := json.MarshalIndent(NewCache(), "", "\t")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, string(emptyCache))
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

// New opens (or creates) the database file and loads it into memory.
func New(fileName string) (*JSONDB, error) {
	theDB := JSONDB{
		fileName: fileName,
		Cache:    NewCache(),
	}

	err := parseJSONFile(theDB.fileName, &theDB.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(theDB.fileName, &theDB.Cache)
		if err != nil {
			return nil, err
		}
	}

	return &theDB, nil
}

// CreateUser stores a new user, enforcing username uniqueness.
func (db *JSONDB) CreateUser(ctx context.Context, usr *models.User) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, taken := db.Cache.UsernameToID[usr.Username]; taken {
		return "", models.ErrUsernameTaken
	}

	stored := *usr
	db.Cache.Users[stored.ID] = &stored
	db.Cache.UsernameToID[stored.Username] = stored.ID

	return stored.ID, nil
}

// GetUserByUsername fetches a user by their unique username.
func (db *JSONDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	userID, found := db.Cache.UsernameToID[username]
	if !found {
		return nil, models.ErrNotFound
	}

	usr := *db.Cache.Users[userID]

	return &usr, nil
}

// GetUserByID fetches a user by their UUID.
func (db *JSONDB) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, found := db.Cache.Users[userID]
	if !found {
		return nil, models.ErrNotFound
	}

	usr := *stored

	return &usr, nil
}

// InsertLink stores a new short link record.
func (db *JSONDB) InsertLink(ctx context.Context, link *models.ShortLink) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *link
	db.Cache.Links[stored.ID] = &stored
	db.Cache.ShortToLinkID[stored.Short] = stored.ID

	return nil
}

// GetLinkByID fetches a short link by its UUID.
func (db *JSONDB) GetLinkByID(ctx context.Context, linkID string) (*models.ShortLink, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, found := db.Cache.Links[linkID]
	if !found {
		return nil, models.ErrNotFound
	}

	link := *stored

	return &link, nil
}

// GetLinksByOwner returns the links owned by the given user, oldest first.
func (db *JSONDB) GetLinksByOwner(ctx context.Context, ownerID string) ([]models.ShortLink, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	owned := funk.Filter(funk.Values(db.Cache.Links), func(link *models.ShortLink) bool {
		return link.OwnerID == ownerID
	}).([]*models.ShortLink)

	result := make([]models.ShortLink, 0, len(owned))
	for _, link := range owned {
		result = append(result, *link)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// DeleteLink removes a short link by its UUID.
func (db *JSONDB) DeleteLink(ctx context.Context, linkID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored, found := db.Cache.Links[linkID]
	if !found {
		return models.ErrNotFound
	}

	delete(db.Cache.ShortToLinkID, stored.Short)
	delete(db.Cache.Links, linkID)

	return nil
}

// IsShortExists checks if the specified short code is already in use.
func (db *JSONDB) IsShortExists(ctx context.Context, short string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, exists := db.Cache.ShortToLinkID[short]

	return exists, nil
}

// RegisterClick increments the click counter of the link with the given short
// code and returns its full URL. The increment happens under the cache lock,
// so concurrent redirects never lose updates.
func (db *JSONDB) RegisterClick(ctx context.Context, short string) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	linkID, found := db.Cache.ShortToLinkID[short]
	if !found {
		return "", models.ErrNotFound
	}

	link := db.Cache.Links[linkID]
	link.Clicks++

	return link.Full, nil
}

// Ping always succeeds for the file backend.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the in-memory cache to the database file.
func (db *JSONDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return writeToJSONFile(db.fileName, db.Cache)
}
