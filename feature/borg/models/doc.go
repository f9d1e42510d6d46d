// Package models defines the catalog tables and the views served by the API.
package models
