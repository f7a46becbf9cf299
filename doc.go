// Package clipmemo is the Composition Root for the Clip Memo application.
//
// It connects the core memo domain (categories, search, storage budget)
// with the infrastructure adapters (filesystem persistence, offline cache
// gateway) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Clip Memo is a single-user, local-first memo vault. All state lives on
// the user's machine as plain JSON files keyed the way a browser keys its
// local storage, so the vault is inspectable, portable, and survives the
// app. The core is storage agnostic: the default adapter writes atomic
// files, but anything implementing core.Store can back it.
//
// Features:
//
//   - **Local First**: Every operation persists immediately; no account, no server.
//   - **Categories**: Reserved "전체" (all) and "기본" (default) groups plus user-defined ones, with cascade on rename and delete.
//   - **Search**: Combined category and substring filtering with ranked autocomplete suggestions.
//   - **Offline Gateway**: An HTTP layer applying cache-first and network-first strategies so the app shell keeps working without a network.
//   - **Extensible**: Other backends plug in via core.Store.
//
// Usage:
//
//	// Initialize the vault with functional options
//	svc, err := clipmemo.New("./memos",
//		clipmemo.WithAutoInit(true),
//		clipmemo.WithLogger(logger),
//	)
//
//	// Add a memo
//	memo, err := svc.AddMemo(ctx, core.Memo{Content: "버터 사기"})
package clipmemo
