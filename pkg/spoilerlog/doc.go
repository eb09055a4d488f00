// Package spoilerlog parses Wind Waker randomizer spoiler logs.
//
// A spoiler log is a plain text report of where the randomizer placed every
// item. It is split into sections by fixed header lines and uses
// indentation to group checks under their area:
//
//	Starting island: Windfall Island
//	Playthrough:
//	Sphere 0
//	  Dragon Roost Cavern - Gohma Heart Container:
//	      Dragon Roost Cavern - Gohma Heart Container: Wind Waker
//	All item locations:
//	  Outset Island:
//	    Outset Island - Savage Labyrinth: Hero's Charm
//	Entrances:
//	  Dragon Roost Cavern: Forest Haven
//	Charts:
//	  Triangle Island Chart: Mother and Child Isles
//
// # Basic Usage
//
// To parse a file:
//
//	log, err := spoilerlog.ParseFile(ctx, "Spoiler Log.txt")
//	if err != nil {
//	    return err
//	}
//	for i, sphere := range log.Playthrough {
//	    for _, loc := range sphere {
//	        fmt.Printf("sphere %d: %s -> %s\n", i, loc.Check, loc.Item)
//	    }
//	}
//
// Lines from any other source can be parsed with [Parse] or [ParseReader].
//
// # Watching an Output Directory
//
// [Watcher] polls the randomizer's output directory and parses every new
// spoiler log once the randomizer has finished writing it:
//
//	results, errs, err := spoilerlog.Watch(ctx, spoilerlog.WithLogDir(dir))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    select {
//	    case res, ok := <-results:
//	        if !ok {
//	            return
//	        }
//	        fmt.Println(res.Path, res.Log.StartingIsland)
//	    case err, ok := <-errs:
//	        if !ok {
//	            return
//	        }
//	        log.Printf("error: %v", err)
//	    }
//	}
//
// # Errors
//
// The log format is produced by a single program, so the parser does not
// try to recover from malformed input. A data line without a ':' or a
// playthrough check before the first sphere stops the parse with a
// [ParseError] that unwraps to [ErrMissingDelimiter] or [ErrNoSphere].
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Nintendo or the
// randomizer authors.
package spoilerlog
