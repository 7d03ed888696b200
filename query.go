package bookshelf

import (
	"github.com/graph-gophers/bookshelf/internal/dataset"
)

func (r *Resolver) Book(args struct{ ID *int32 }) *bookResolver {
	if args.ID == nil {
		return nil
	}
	b, ok := r.ds.Book(*args.ID)
	if !ok {
		return nil
	}
	return &bookResolver{ds: r.ds, b: b}
}

func (r *Resolver) Author(args struct{ ID *int32 }) *authorResolver {
	if args.ID == nil {
		return nil
	}
	a, ok := r.ds.Author(*args.ID)
	if !ok {
		return nil
	}
	return &authorResolver{ds: r.ds, a: a}
}

func (r *Resolver) Books() *[]*bookResolver {
	return resolveBooks(r.ds, r.ds.Books())
}

func (r *Resolver) Authors() *[]*authorResolver {
	authors := r.ds.Authors()
	l := make([]*authorResolver, len(authors))
	for i, a := range authors {
		l[i] = &authorResolver{ds: r.ds, a: a}
	}
	return &l
}

type authorResolver struct {
	ds *dataset.Dataset
	a  dataset.Author
}

func (r *authorResolver) ID() int32 {
	return r.a.ID
}

func (r *authorResolver) Name() string {
	return r.a.Name
}

func (r *authorResolver) Books() *[]*bookResolver {
	return resolveBooks(r.ds, r.ds.BooksByAuthor(r.a.ID))
}

type bookResolver struct {
	ds *dataset.Dataset
	b  dataset.Book
}

func (r *bookResolver) ID() int32 {
	return r.b.ID
}

func (r *bookResolver) Name() string {
	return r.b.Name
}

func (r *bookResolver) AuthorID() int32 {
	return r.b.AuthorID
}

func (r *bookResolver) Author() *authorResolver {
	a, ok := r.ds.Author(r.b.AuthorID)
	if !ok {
		return nil
	}
	return &authorResolver{ds: r.ds, a: a}
}

func resolveBooks(ds *dataset.Dataset, books []dataset.Book) *[]*bookResolver {
	l := make([]*bookResolver, len(books))
	for i, b := range books {
		l[i] = &bookResolver{ds: ds, b: b}
	}
	return &l
}
