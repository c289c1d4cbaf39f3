/*
Package catalog loads the resolver catalog a measurement campaign works on,
and renders the corrected catalog after the campaign has run.

A catalog is a directory of per-country JSON files: the file stem names the
country claiming the resolvers inside, so "de.json" claims all its resolvers
for DE. Each file holds a single JSON array of resolver records with "ip" and
optionally "city" fields; unknown fields are ignored, so catalogs in the wild
with richer records load just fine.

Resolver identity is the IP address: the same address claimed twice, whether
within one file or across countries, keeps only its first claim.
*/
package catalog
