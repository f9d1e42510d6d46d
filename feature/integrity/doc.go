// Package integrity provides health checks for the borg catalog.
//
// # Checks Provided
//
//   - Structure: Checks that the bucket holds one image container per resolution (e.g. live-default/, live-medium/).
//   - Schema: Validates that the borgs, attributes and borg_attributes tables match the GORM models (columns, declared types).
//   - Items: Reconciles the chain, the database and every image container through core/reconcile, and plans imports
//     for items the chain produced but the database lacks and republishes for stored items missing an image.
//
// # HTTP Endpoints
//
// All endpoints require the API key.
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/items : Runs item reconciliation (supports ?fix=true).
package integrity
