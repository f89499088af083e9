// Command buildquery generates typed gorm/gen query builders for the models.
// Run it from the repository root.
package main

import (
	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
	"gorm.io/gen"
)

func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath:       "./query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface, // generate mode
		FieldNullable: true,
	})

	g.ApplyBasic(model.All()...)

	// Generate the code
	g.Execute()
}
