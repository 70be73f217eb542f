// Package hcl provides the concrete HCL implementation of config.Loader. It
// parses binding manifests, from files or from memory, and translates their
// type, method and namespace blocks into the format-agnostic config model.
package hcl
