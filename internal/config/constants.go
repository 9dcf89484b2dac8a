package config

const SourceFileExt = ".fer"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".fer", ".ferrite"}

// ManifestFileName is the project manifest looked up in the checked
// directory.
const ManifestFileName = "ferrite.yaml"

// CacheFileName is the incremental diagnostics cache, relative to the
// project directory.
const CacheFileName = ".ferrite/check.db"
