// Package dataset holds the in-memory author and book collections served by the bookshelf schema.
package dataset

import (
	"sync"

	"github.com/samber/lo"
)

// Author is a stored author record. Its books are derived on read.
type Author struct {
	ID   int32
	Name string
}

// Book is a stored book record referencing an author by id.
type Book struct {
	ID       int32
	Name     string
	AuthorID int32
}

// Dataset owns both collections. Entries are only ever appended, so ids are
// assigned as len+1 of the owning collection. All access is serialized by mu.
type Dataset struct {
	mu      sync.RWMutex
	authors []Author
	books   []Book
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{}
}

// NewSeeded returns a dataset holding the initial three authors and eight books.
func NewSeeded() *Dataset {
	d := New()
	for _, name := range seedAuthors {
		d.AddAuthor(name)
	}
	for _, b := range seedBooks {
		d.AddBook(b.name, b.authorID)
	}
	return d
}

var seedAuthors = []string{
	"J. K. Rowling",
	"J. R. R. Tolkien",
	"Brent Weeks",
}

var seedBooks = []struct {
	name     string
	authorID int32
}{
	{"Harry Potter and the Chamber of Secrets", 1},
	{"Harry Potter and the Prisoner of Azkaban", 1},
	{"Harry Potter and the Goblet of Fire", 1},
	{"The Fellowship of the Ring", 2},
	{"The Two Towers", 2},
	{"The Return of the King", 2},
	{"The Way of Shadows", 3},
	{"Beyond the Shadows", 3},
}

// Book returns the first book with the given id.
func (d *Dataset) Book(id int32) (Book, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.Find(d.books, func(b Book) bool { return b.ID == id })
}

// Author returns the first author with the given id.
func (d *Dataset) Author(id int32) (Author, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.author(id)
}

func (d *Dataset) author(id int32) (Author, bool) {
	return lo.Find(d.authors, func(a Author) bool { return a.ID == id })
}

// Books returns a snapshot of all books in insertion order.
func (d *Dataset) Books() []Book {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Book(nil), d.books...)
}

// Authors returns a snapshot of all authors in insertion order.
func (d *Dataset) Authors() []Author {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Author(nil), d.authors...)
}

// BooksByAuthor returns every book whose AuthorID equals authorID, in insertion order.
func (d *Dataset) BooksByAuthor(authorID int32) []Book {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.Filter(d.books, func(b Book, _ int) bool { return b.AuthorID == authorID })
}

// Counts reports the current collection sizes.
func (d *Dataset) Counts() (authors, books int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.authors), len(d.books)
}

// AddAuthor appends a new author and returns it.
func (d *Dataset) AddAuthor(name string) Author {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addAuthor(name)
}

func (d *Dataset) addAuthor(name string) Author {
	a := Author{ID: int32(len(d.authors) + 1), Name: name}
	d.authors = append(d.authors, a)
	return a
}

// AddBook appends a new book for authorID and returns it. The author
// reference is not checked; callers resolve the author first.
func (d *Dataset) AddBook(name string, authorID int32) Book {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addBook(name, authorID)
}

func (d *Dataset) addBook(name string, authorID int32) Book {
	b := Book{ID: int32(len(d.books) + 1), Name: name, AuthorID: authorID}
	d.books = append(d.books, b)
	return b
}

// AddBookForAuthor appends a book for an existing author. It reports false,
// leaving the dataset untouched, when no author has the given id.
func (d *Dataset) AddBookForAuthor(name string, authorID int32) (Book, Author, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.author(authorID)
	if !ok {
		return Book{}, Author{}, false
	}
	return d.addBook(name, a.ID), a, true
}

// AddBookWithNewAuthor creates an author and a book written by it in one step.
func (d *Dataset) AddBookWithNewAuthor(name, authorName string) (Book, Author) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := d.addAuthor(authorName)
	return d.addBook(name, a.ID), a
}
