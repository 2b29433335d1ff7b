package model

import "strings"

// Identification holds candidate coordinates of an archive in discovery
// order, without blanks or duplicates.
type Identification struct {
	GroupIDs    []string `json:"group_ids,omitempty" yaml:"group_ids,omitempty"`
	ArtifactIDs []string `json:"artifact_ids,omitempty" yaml:"artifact_ids,omitempty"`
	Names       []string `json:"names,omitempty" yaml:"names,omitempty"`
	Versions    []string `json:"versions,omitempty" yaml:"versions,omitempty"`
	Vendors     []string `json:"vendors,omitempty" yaml:"vendors,omitempty"`
}

func appendUnique(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// AddGroupID records a candidate group id.
func (i *Identification) AddGroupID(v string) { i.GroupIDs = appendUnique(i.GroupIDs, v) }

// AddArtifactID records a candidate artifact id.
func (i *Identification) AddArtifactID(v string) { i.ArtifactIDs = appendUnique(i.ArtifactIDs, v) }

// AddName records a candidate name.
func (i *Identification) AddName(v string) { i.Names = appendUnique(i.Names, v) }

// AddVersion records a candidate version.
func (i *Identification) AddVersion(v string) { i.Versions = appendUnique(i.Versions, v) }

// AddVendor records a candidate vendor.
func (i *Identification) AddVendor(v string) { i.Vendors = appendUnique(i.Vendors, v) }
