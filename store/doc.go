// Package store defines the persisted record shapes of the engine — accounts,
// refresh tokens, single-use tokens — and the contracts their stores satisfy.
//
// Records are built through constructors that accept the full shape and
// return fully-formed values; there is no post-construction field injection
// and no reflection-based mapping anywhere in the store layer.
//
// Token records never hold raw token values. Callers hash the value
// (password.HashSHA256) before storing or looking it up, so a leaked store
// dump yields nothing presentable.
package store
