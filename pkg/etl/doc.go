// Package etl chains a record extractor, per-record transforms and a record
// loader into a runnable Pipeline.
//
//	p, err := etl.New(extract, load,
//		etl.WithName("sales"),
//		etl.WithTransforms(fields.NewFilter("date", "qty"), fields.NewRename(map[string]string{"qty": "quantity"})),
//	)
//	if err != nil {
//		return err
//	}
//	return p.Run()
//
// Records are pulled lazily: a transform runs on a record only when the
// loader asks for it.
package etl
