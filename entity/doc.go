// Package entity binds a hydra.Client to one resource collection and exposes
// its CRUD verbs.
//
//	books, err := entity.New[Book, BookInput](entity.FromEntrypoint("https://api.example.com"), "/books")
//	res, err := books.Get(ctx, hydra.ID(1))                        // GET /books/1
//	res, err = books.Update(ctx, entity.At(hydra.ID(1), patch))    // PATCH /books/1
//	res, err = books.Replace(ctx, entity.Self(book))               // PUT <book's @id>
//
// Identifiers are either numeric ids, resolved under the collection path, or
// IRIs, used as given.
package entity
