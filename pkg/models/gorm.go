package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&MediaFile{},
	}
}
