// Package pgstore keeps a meal log of shaped food analyses in PostgreSQL.
//
// Every analysis is stored whole as JSONB, with its total macros copied into
// plain numeric columns so daily sums ([Store.ConsumedSince]) stay cheap.
// [New] takes any pgx query executor, typically a *pgxpool.Pool. Use
// [Store.EnsureSchema] during development to create the table; production
// deployments should manage migrations with dedicated tooling.
package pgstore
