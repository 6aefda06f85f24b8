// Package service provides the application-level operations on the company
// collection catalog: listing and paging collections, adding companies, and
// the asynchronous merge of one collection's membership into another.
package service
