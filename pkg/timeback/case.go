package timeback

// LinkURI points at another CASE record.
type LinkURI struct {
	Title      string `json:"title,omitempty"      yaml:"title,omitempty"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	URI        string `json:"uri,omitempty"        yaml:"uri,omitempty"`
}

// CFDocument is the root of a competency framework.
type CFDocument struct {
	SourcedID          string   `json:"sourcedId,omitempty"          yaml:"sourced_id,omitempty"`
	Identifier         string   `json:"identifier,omitempty"         yaml:"identifier,omitempty"`
	URI                string   `json:"uri,omitempty"                yaml:"uri,omitempty"`
	Title              string   `json:"title"                        yaml:"title"`
	Creator            string   `json:"creator,omitempty"            yaml:"creator,omitempty"`
	Publisher          string   `json:"publisher,omitempty"          yaml:"publisher,omitempty"`
	Description        string   `json:"description,omitempty"        yaml:"description,omitempty"`
	Subject            []string `json:"subject,omitempty"            yaml:"subject,omitempty"`
	Language           string   `json:"language,omitempty"           yaml:"language,omitempty"`
	Version            string   `json:"version,omitempty"            yaml:"version,omitempty"`
	AdoptionStatus     string   `json:"adoptionStatus,omitempty"     yaml:"adoption_status,omitempty"`
	LastChangeDateTime string   `json:"lastChangeDateTime,omitempty" yaml:"last_change_date_time,omitempty"`
	CFPackageURI       *LinkURI `json:"CFPackageURI,omitempty"       yaml:"cf_package_uri,omitempty"`
}

// CFItem is one competency or standard inside a framework.
type CFItem struct {
	SourcedID          string   `json:"sourcedId,omitempty"          yaml:"sourced_id,omitempty"`
	Identifier         string   `json:"identifier,omitempty"         yaml:"identifier,omitempty"`
	URI                string   `json:"uri,omitempty"                yaml:"uri,omitempty"`
	FullStatement      string   `json:"fullStatement"                yaml:"full_statement"`
	HumanCodingScheme  string   `json:"humanCodingScheme,omitempty"  yaml:"human_coding_scheme,omitempty"`
	ListEnumeration    string   `json:"listEnumeration,omitempty"    yaml:"list_enumeration,omitempty"`
	CFItemType         string   `json:"CFItemType,omitempty"         yaml:"cf_item_type,omitempty"`
	EducationLevel     []string `json:"educationLevel,omitempty"     yaml:"education_level,omitempty"`
	Language           string   `json:"language,omitempty"           yaml:"language,omitempty"`
	LastChangeDateTime string   `json:"lastChangeDateTime,omitempty" yaml:"last_change_date_time,omitempty"`
	CFDocumentURI      *LinkURI `json:"CFDocumentURI,omitempty"      yaml:"cf_document_uri,omitempty"`
}

// CFAssociation relates two CASE nodes, e.g. isChildOf or precedes.
type CFAssociation struct {
	SourcedID          string   `json:"sourcedId,omitempty"          yaml:"sourced_id,omitempty"`
	Identifier         string   `json:"identifier,omitempty"         yaml:"identifier,omitempty"`
	URI                string   `json:"uri,omitempty"                yaml:"uri,omitempty"`
	AssociationType    string   `json:"associationType"              yaml:"association_type"`
	SequenceNumber     int      `json:"sequenceNumber,omitempty"     yaml:"sequence_number,omitempty"`
	OriginNodeURI      LinkURI  `json:"originNodeURI"                yaml:"origin_node_uri"`
	DestinationNodeURI LinkURI  `json:"destinationNodeURI"           yaml:"destination_node_uri"`
	CFDocumentURI      *LinkURI `json:"CFDocumentURI,omitempty"      yaml:"cf_document_uri,omitempty"`
	LastChangeDateTime string   `json:"lastChangeDateTime,omitempty" yaml:"last_change_date_time,omitempty"`
}

// CFPackage is a framework document with all of its items and associations.
type CFPackage struct {
	CFDocument     CFDocument      `json:"CFDocument"     yaml:"document"`
	CFItems        []CFItem        `json:"CFItems"        yaml:"items"`
	CFAssociations []CFAssociation `json:"CFAssociations" yaml:"associations"`
}

// CFDocumentSearch narrows framework document listings.
type CFDocumentSearch struct {
	Query          string
	Title          string
	Subject        string
	Creator        string
	Publisher      string
	EducationLevel string
	Limit          int
	Offset         int
}

// Empty reports whether no criterion is set.
func (s *CFDocumentSearch) Empty() bool {
	return s == nil || *s == CFDocumentSearch{}
}

// QueryParams renders the search as CASE query keys.
func (s *CFDocumentSearch) QueryParams() *QueryParams {
	params := NewQueryParams()
	if s == nil {
		return params
	}

	for key, value := range map[string]string{
		"q":              s.Query,
		"title":          s.Title,
		"subject":        s.Subject,
		"creator":        s.Creator,
		"publisher":      s.Publisher,
		"educationLevel": s.EducationLevel,
	} {
		if value != "" {
			params.WithExtra(key, value)
		}
	}

	params.Limit = s.Limit
	params.Offset = s.Offset

	return params
}

