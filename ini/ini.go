// Package ini reads and writes the structured key/value text files game
// data ships with. Unlike generic INI libraries it preserves section and
// key order and keeps comment blocks attached to the entry that follows
// them, so a loaded file saves back byte-for-byte.
package ini

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrInvalidName = errors.New("ini: invalid section or key name")
	ErrNoSection   = errors.New("ini: no such section")
)

// KeyValue is a single key=value entry plus the comment block written
// directly above it.
type KeyValue struct {
	Key     string
	Value   string
	Comment string
}

// Section is a named, ordered group of entries. Name matching is
// case-insensitive everywhere.
type Section struct {
	Name    string
	Comment string
	Keys    []KeyValue
}

// File is an ordered list of sections.
type File struct {
	sections []Section

	allowNonEnglish    bool
	requireDelimiter   bool
	defaultSectionName string
}

// New returns an empty file.
func New() *File {
	return &File{}
}

// AllowNonEnglishCharacters relaxes name validation to reject only
// characters that would break parsing.
func (f *File) AllowNonEnglishCharacters() { f.allowNonEnglish = true }

// RequireKeyValueDelimiter drops lines without an '=' instead of treating
// them as valueless keys.
func (f *File) RequireKeyValueDelimiter() { f.requireDelimiter = true }

// SetDefaultSectionName names the implicit section that collects entries
// appearing before any [section] header.
func (f *File) SetDefaultSectionName(name string) { f.defaultSectionName = name }

func (f *File) isValidChar(c rune) bool {
	if f.allowNonEnglish {
		return c != '[' && c != ']' && c != '=' && c != '#' && c != '\r' && c != '\n'
	}
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == ' ' || c == ':'
}

func (f *File) isValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !f.isValidChar(c) {
			return false
		}
	}
	return true
}

// Clear removes all sections.
func (f *File) Clear() { f.sections = nil }

// Load parses the file contents from r, replacing any existing content.
// Comment lines start with '#', ';' or "//" and attach to the next section
// header or key below them.
func (f *File) Load(r io.Reader) error {
	f.Clear()

	section := Section{Name: f.defaultSectionName}
	var comment strings.Builder
	lineno := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if lineno == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			// Do nothing.
		case line[0] == '#' || line[0] == ';' || strings.HasPrefix(line, "//") || line[0] == '(':
			comment.WriteString(line)
			comment.WriteByte('\n')
		case line[0] == '[':
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return fmt.Errorf("ini: missing ] in line %d", lineno)
			}
			name := line[1:end]
			if !f.isValidName(name) {
				return fmt.Errorf("%w: section %q in line %d", ErrInvalidName, name, lineno)
			}
			if section.Name != "" {
				f.sections = append(f.sections, section)
			}
			section = Section{Name: name, Comment: comment.String()}
			comment.Reset()
		default:
			if section.Name == "" {
				return fmt.Errorf("ini: key/value pair outside a section in line %d", lineno)
			}

			var kv KeyValue
			if eq := strings.IndexByte(line, '='); eq < 0 {
				if f.requireDelimiter {
					comment.Reset()
					continue
				}
				kv.Key = strings.TrimSpace(line)
			} else {
				kv.Key = strings.TrimSpace(line[:eq])
				kv.Value = strings.TrimSpace(line[eq+1:])
			}
			kv.Comment = comment.String()
			comment.Reset()

			if !f.isValidName(kv.Key) {
				return fmt.Errorf("%w: key %q in line %d", ErrInvalidName, kv.Key, lineno)
			}
			section.Keys = append(section.Keys, kv)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if section.Name != "" {
		f.sections = append(f.sections, section)
	}
	return nil
}

// Save writes the file to w, re-emitting every comment block before its
// entry and keeping the loaded order.
func (f *File) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range f.sections {
		s := &f.sections[i]
		if s.Comment != "" {
			bw.WriteString(s.Comment)
		}
		fmt.Fprintf(bw, "[%s]\n", s.Name)
		for _, kv := range s.Keys {
			if kv.Comment != "" {
				bw.WriteString(kv.Comment)
			}
			fmt.Fprintf(bw, "%s=%s\n", kv.Key, kv.Value)
		}
	}
	return bw.Flush()
}

// Sections returns the sections in file order.
func (f *File) Sections() []Section { return f.sections }

func (f *File) section(name string) *Section {
	for i := range f.sections {
		if strings.EqualFold(f.sections[i].Name, name) {
			return &f.sections[i]
		}
	}
	return nil
}

// AddSection appends an empty section unless one with the name exists.
func (f *File) AddSection(name string) error {
	if !f.isValidName(name) {
		return fmt.Errorf("%w: section %q", ErrInvalidName, name)
	}
	if f.section(name) == nil {
		f.sections = append(f.sections, Section{Name: name})
	}
	return nil
}

// RemoveSection deletes the named section, if present.
func (f *File) RemoveSection(name string) {
	for i := range f.sections {
		if strings.EqualFold(f.sections[i].Name, name) {
			f.sections = append(f.sections[:i], f.sections[i+1:]...)
			return
		}
	}
}

// HasSection reports whether the named section exists.
func (f *File) HasSection(name string) bool {
	return f.section(name) != nil
}

// RenameSection renames a section in place. Renaming onto an existing
// section name is rejected.
func (f *File) RenameSection(oldName, newName string) error {
	if !f.isValidName(oldName) || !f.isValidName(newName) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidName, oldName, newName)
	}
	s := f.section(oldName)
	if s == nil {
		return fmt.Errorf("%w: %q", ErrNoSection, oldName)
	}
	if f.section(newName) != nil {
		return fmt.Errorf("ini: section name %q already used", newName)
	}
	s.Name = newName
	return nil
}

// HasKey reports whether the key exists in the named section.
func (f *File) HasKey(key, section string) bool {
	s := f.section(section)
	return s != nil && s.getKey(key) != nil
}

// RemoveKey deletes the key from the named section, if present.
func (f *File) RemoveKey(key, section string) {
	if s := f.section(section); s != nil {
		s.removeKey(key)
	}
}

// Get returns the value of key in section.
func (f *File) Get(key, section string) (string, bool) {
	s := f.section(section)
	if s == nil {
		return "", false
	}
	kv := s.getKey(key)
	if kv == nil {
		return "", false
	}
	return kv.Value, true
}

// GetInt returns the value of key in section parsed as a decimal integer.
func (f *File) GetInt(key, section string) (int, bool) {
	v, ok := f.Get(key, section)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetBool returns the value of key in section parsed as a boolean
// ("true"/"false", "yes"/"no", "1"/"0").
func (f *File) GetBool(key, section string) (bool, bool) {
	v, ok := f.Get(key, section)
	if !ok {
		return false, false
	}
	switch strings.ToLower(v) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}

// Set stores key=value in section, creating the section if needed and
// keeping the position of an existing key.
func (f *File) Set(key, section, value string) error {
	if !f.isValidName(key) {
		return fmt.Errorf("%w: key %q", ErrInvalidName, key)
	}
	if !f.isValidName(section) {
		return fmt.Errorf("%w: section %q", ErrInvalidName, section)
	}

	s := f.section(section)
	if s == nil {
		f.sections = append(f.sections, Section{
			Name: section,
			Keys: []KeyValue{{Key: key, Value: value}},
		})
		return nil
	}
	s.setKey(key, value)
	return nil
}

// Keys returns the entries of the named section in file order.
func (f *File) Keys(section string) ([]KeyValue, error) {
	s := f.section(section)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSection, section)
	}
	return s.Keys, nil
}

func (s *Section) getKey(key string) *KeyValue {
	for i := range s.Keys {
		if strings.EqualFold(s.Keys[i].Key, key) {
			return &s.Keys[i]
		}
	}
	return nil
}

func (s *Section) setKey(key, value string) {
	if kv := s.getKey(key); kv != nil {
		kv.Value = value
		return
	}
	s.Keys = append(s.Keys, KeyValue{Key: key, Value: value})
}

func (s *Section) removeKey(key string) {
	for i := range s.Keys {
		if strings.EqualFold(s.Keys[i].Key, key) {
			s.Keys = append(s.Keys[:i], s.Keys[i+1:]...)
			return
		}
	}
}
