// Package borg implements the collectible catalog: importing items from the chain,
// publishing their images, persisting them with their attributes, and serving the
// read API. Background tasks keep the catalog in step with the contract.
package borg
