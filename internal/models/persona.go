// Package models defines the records kept by expedientes: personas,
// expedientes, registros and estados, plus users and audit entries.
package models

import (
	"regexp"

	"github.com/DioBrando0203/expedientes/internal/common"
)

var dniPattern = regexp.MustCompile(`^\d{8}$`)

type Persona struct {
	ID     int64
	Nombre string
	DNI    string
	Numero string
}

// HasDNI reports whether the DNI is a real value rather than the sentinel.
func (p *Persona) HasDNI() bool {
	return p.DNI != "" && p.DNI != common.UnknownValue
}

// ValidDNI accepts the sentinel or exactly eight ASCII digits.
func ValidDNI(dni string) bool {
	return dni == common.UnknownValue || dniPattern.MatchString(dni)
}
