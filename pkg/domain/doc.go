// Package domain contains the entities exchanged between App Discovery, the
// intermediate JSON files and the destination list API: applications, their
// extracted URLs, destinations and the record of each sync run. The types stay
// free of transport concerns so every layer can share them.
package domain
